// internal/controllers/pipeline_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/spinonoir/housing-map-project/internal/services"
	"github.com/spinonoir/housing-map-project/internal/utils"
)

type PipelineController struct {
	pipeline *services.PipelineService
}

func NewPipelineController(pipeline *services.PipelineService) *PipelineController {
	return &PipelineController{pipeline: pipeline}
}

// -----------------------------------------------------------------------------
// POST /api/v1/pipeline/run
//
// Kicks off one synchronous pass over every unit still missing
// coordinates. Returns 409 when a pass is already in flight.
// -----------------------------------------------------------------------------
func (c *PipelineController) Run(w http.ResponseWriter, r *http.Request) {
	results, err := c.pipeline.RunIfIdle(r.Context())
	if err != nil {
		if errors.Is(err, utils.ErrPipelineBusy) {
			utils.RespondErrorWithCode(
				w, http.StatusConflict, utils.ErrCodeConflict,
				"A pipeline pass is already running", nil,
			)
			return
		}
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeStoreFailure,
			"Pipeline pass failed", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, results)
}
