// internal/controllers/failures_controller.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/spinonoir/housing-map-project/internal/dtos"
	"github.com/spinonoir/housing-map-project/internal/models"
	"github.com/spinonoir/housing-map-project/internal/services"
	"github.com/spinonoir/housing-map-project/internal/utils"
)

type FailuresController struct {
	unitService services.UnitService
}

func NewFailuresController(unitService services.UnitService) *FailuresController {
	return &FailuresController{unitService: unitService}
}

// -----------------------------------------------------------------------------
// GET /api/v1/geocoding-failures
// -----------------------------------------------------------------------------
func (c *FailuresController) ListFailures(w http.ResponseWriter, r *http.Request) {
	failures, err := c.unitService.ListGeocodingFailures(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeStoreFailure,
			"Failed to list geocoding failures", nil, err,
		)
		return
	}
	if failures == nil {
		failures = []*models.GeocodingFailure{}
	}
	utils.RespondWithJSON(w, http.StatusOK, failures)
}

// -----------------------------------------------------------------------------
// GET /api/v1/geocoding-failures/count
// -----------------------------------------------------------------------------
func (c *FailuresController) CountFailures(w http.ResponseWriter, r *http.Request) {
	count, err := c.unitService.CountGeocodingFailures(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeStoreFailure,
			"Failed to count geocoding failures", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.CountResponse{Count: count})
}

// -----------------------------------------------------------------------------
// DELETE /api/v1/geocoding-failures/{id}
// -----------------------------------------------------------------------------
func (c *FailuresController) ResolveFailure(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := c.unitService.ResolveGeocodingFailure(r.Context(), id); err != nil {
		if errors.Is(err, utils.ErrFailureNotFound) {
			utils.RespondErrorWithCode(
				w, http.StatusNotFound, utils.ErrCodeNotFound,
				fmt.Sprintf("Geocoding failure %s not found", id), nil,
			)
			return
		}
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeStoreFailure,
			"Failed to resolve geocoding failure", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Geocoding failure resolved"})
}
