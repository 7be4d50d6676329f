// internal/controllers/health_controller.go
package controllers

import (
	"net/http"

	"github.com/spinonoir/housing-map-project/internal/utils"
)

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// -----------------------------------------------------------------------------
// GET /health
// -----------------------------------------------------------------------------
func (c *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
