// internal/controllers/units_controller.go
package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/spinonoir/housing-map-project/internal/dtos"
	"github.com/spinonoir/housing-map-project/internal/models"
	"github.com/spinonoir/housing-map-project/internal/services"
	"github.com/spinonoir/housing-map-project/internal/utils"
)

var validate = validator.New()

// Fields a partial update may never overwrite.
var reservedUnitFields = map[string]bool{
	models.FieldID:            true,
	models.FieldFirstSeenDate: true,
	models.FieldBatchID:       true,
}

type UnitsController struct {
	unitService services.UnitService
}

func NewUnitsController(unitService services.UnitService) *UnitsController {
	return &UnitsController{unitService: unitService}
}

// -----------------------------------------------------------------------------
// GET /api/v1/units
// -----------------------------------------------------------------------------
func (c *UnitsController) ListUnits(w http.ResponseWriter, r *http.Request) {
	units, err := c.unitService.ListUnits(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeStoreFailure,
			"Failed to list units", nil, err,
		)
		return
	}
	if units == nil {
		units = []models.Document{}
	}
	utils.RespondWithJSON(w, http.StatusOK, units)
}

// -----------------------------------------------------------------------------
// GET /api/v1/units/favorites
// -----------------------------------------------------------------------------
func (c *UnitsController) ListFavorites(w http.ResponseWriter, r *http.Request) {
	units, err := c.unitService.ListFavorites(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeStoreFailure,
			"Failed to list favorites", nil, err,
		)
		return
	}
	if units == nil {
		units = []models.Document{}
	}
	utils.RespondWithJSON(w, http.StatusOK, units)
}

// -----------------------------------------------------------------------------
// GET /api/v1/units/{id}
// -----------------------------------------------------------------------------
func (c *UnitsController) GetUnit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	unit, err := c.unitService.GetUnit(r.Context(), id)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeStoreFailure,
			"Failed to fetch unit", nil, err,
		)
		return
	}
	if unit == nil {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			fmt.Sprintf("Unit %s not found", id), nil,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, unit)
}

// -----------------------------------------------------------------------------
// PATCH /api/v1/units/{id}
// -----------------------------------------------------------------------------
func (c *UnitsController) UpdateUnit(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req dtos.UpdateUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON body", nil, err,
		)
		return
	}
	if len(req) == 0 {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Update body must contain at least one field", nil,
		)
		return
	}

	partial := models.Document{}
	for k, v := range req {
		if reservedUnitFields[k] {
			continue
		}
		partial[k] = v
	}

	if err := c.unitService.UpdateUnit(r.Context(), id, partial); err != nil {
		c.respondUpdateError(w, id, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Unit updated"})
}

// -----------------------------------------------------------------------------
// PUT /api/v1/units/{id}/favorite
// -----------------------------------------------------------------------------
func (c *UnitsController) SetFavorite(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req dtos.SetFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON body", nil, err,
		)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"favorite field is required", nil, err,
		)
		return
	}

	if err := c.unitService.SetFavorite(r.Context(), id, *req.Favorite); err != nil {
		c.respondUpdateError(w, id, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Favorite updated"})
}

// -----------------------------------------------------------------------------
// PUT /api/v1/units/{id}/status
// -----------------------------------------------------------------------------
func (c *UnitsController) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req dtos.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON body", nil, err,
		)
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"status must be one of: available, favorite, not_interested, off_market", nil, err,
		)
		return
	}

	if err := c.unitService.SetStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, utils.ErrInvalidStatus) {
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeValidation,
				"Invalid status value", nil, err,
			)
			return
		}
		c.respondUpdateError(w, id, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Status updated"})
}

// -----------------------------------------------------------------------------
// DELETE /api/v1/units
// -----------------------------------------------------------------------------
func (c *UnitsController) ClearDatabase(w http.ResponseWriter, r *http.Request) {
	summary, err := c.unitService.ClearDatabase(r.Context())
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeStoreFailure,
			"Failed to clear the unit store", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, summary)
}

// -----------------------------------------------------------------------------
// POST /api/v1/units/reprocess
// -----------------------------------------------------------------------------
func (c *UnitsController) ReprocessExisting(w http.ResponseWriter, r *http.Request) {
	summary := c.unitService.ReprocessExisting(r.Context())
	utils.RespondWithJSON(w, http.StatusOK, summary)
}

// -----------------------------------------------------------------------------
// POST /api/v1/units/fix-parking
// -----------------------------------------------------------------------------
func (c *UnitsController) FixParkingData(w http.ResponseWriter, r *http.Request) {
	summary := c.unitService.FixParkingData(r.Context())
	utils.RespondWithJSON(w, http.StatusOK, summary)
}

func (c *UnitsController) respondUpdateError(w http.ResponseWriter, id string, err error) {
	if errors.Is(err, utils.ErrUnitNotFound) {
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, utils.ErrCodeNotFound,
			fmt.Sprintf("Unit %s not found", id), nil,
		)
		return
	}
	utils.RespondErrorWithCode(
		w, http.StatusInternalServerError, utils.ErrCodeStoreFailure,
		"Failed to update unit", nil, err,
	)
}
