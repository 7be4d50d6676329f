// internal/dtos/unit_dtos.go
package dtos

// UpdateUnitRequest is a free-form partial update; the service validates
// nothing beyond non-emptiness since units are open documents. The
// reserved identity/metadata fields are stripped by the controller.
type UpdateUnitRequest map[string]any

type SetFavoriteRequest struct {
	Favorite *bool `json:"favorite" validate:"required"`
}

type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available favorite not_interested off_market"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type CountResponse struct {
	Count int `json:"count"`
}
