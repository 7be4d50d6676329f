// internal/scraper/controller.go
package scraper

import (
	"errors"
	"net/http"
	"strings"

	"github.com/spinonoir/housing-map-project/internal/utils"
)

type Controller struct {
	svc *Service
}

func NewController(svc *Service) *Controller {
	return &Controller{svc: svc}
}

// -----------------------------------------------------------------------------
// GET /scrape?url=<listing_url>
// -----------------------------------------------------------------------------
func (c *Controller) ScrapeListing(w http.ResponseWriter, r *http.Request) {
	listingURL := r.URL.Query().Get("url")
	if listingURL == "" || !strings.HasPrefix(listingURL, "http") {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"url query parameter must be an absolute listing URL", nil,
		)
		return
	}

	listing, err := c.svc.FetchListing(r.Context(), listingURL)
	if err != nil {
		var upstream *UpstreamStatusError
		if errors.As(err, &upstream) && upstream.StatusCode == http.StatusNotFound {
			// The tracker reads a 404 here as the listing being gone.
			utils.RespondErrorWithCode(
				w, http.StatusNotFound, utils.ErrCodeNotFound,
				"Listing no longer exists", nil, err,
			)
			return
		}
		utils.RespondErrorWithCode(
			w, http.StatusBadGateway, utils.ErrCodeExternalService,
			"Failed to fetch listing page", nil, err,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, listing)
}
