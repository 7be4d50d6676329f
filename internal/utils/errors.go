package utils

import (
	"errors"
	"net/http"
)

/*
   Sentinel errors for tracker domain logic.
   Callers can do: if errors.Is(err, ErrXYZ) { ... }
*/
var (
	// Store
	ErrUnitNotFound    = errors.New("unit_not_found")
	ErrFailureNotFound = errors.New("failure_not_found")

	// Upload / normalization
	ErrMissingIdentityFields = errors.New("missing_identity_fields")
	ErrInvalidStatus         = errors.New("invalid_status")

	// Pipeline
	ErrPipelineBusy = errors.New("pipeline_busy")

	// External collaborators
	ErrGeocoderUnavailable = errors.New("geocoder_unavailable")
	ErrScraperUnavailable  = errors.New("scraper_unavailable")

	// A well-formed not-found from the enrichment service. This is a
	// business outcome (listing gone), not a failure.
	ErrListingGone = errors.New("listing_gone")
)

// AppError for structured error handling from services to controllers.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// HandleAppError centralizes responding to AppErrors.
func HandleAppError(w http.ResponseWriter, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		RespondErrorWithCode(w, appErr.StatusCode, appErr.Code, appErr.Message, nil, appErr.Err)
	} else {
		RespondErrorWithCode(w, http.StatusInternalServerError, ErrCodeInternal, "An unexpected error occurred", nil, err)
	}
}
