// internal/controllers/upload_controller.go
package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/spinonoir/housing-map-project/internal/services"
	"github.com/spinonoir/housing-map-project/internal/utils"
)

type UploadController struct {
	uploadService services.UploadService
}

func NewUploadController(uploadService services.UploadService) *UploadController {
	return &UploadController{uploadService: uploadService}
}

// -----------------------------------------------------------------------------
// POST /api/v1/units/upload
//
// Accepts either a raw text/csv body or a multipart form with a "file"
// part. Re-uploading the same file updates existing units in place.
// -----------------------------------------------------------------------------
func (c *UploadController) UploadCSV(w http.ResponseWriter, r *http.Request) {
	var body io.Reader = r.Body
	defer r.Body.Close()

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			utils.RespondErrorWithCode(
				w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
				"Expected a CSV upload in the 'file' form field", nil, err,
			)
			return
		}
		defer file.Close()
		body = file
	}

	summary, err := c.uploadService.UploadCSV(r.Context(), body)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Failed to parse CSV upload", nil, err,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, summary)
}
