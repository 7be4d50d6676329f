// internal/clients/scraper_client.go
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/spinonoir/housing-map-project/internal/constants"
	"github.com/spinonoir/housing-map-project/internal/models"
	"github.com/spinonoir/housing-map-project/internal/utils"
)

/*
ListingScraper fetches structured attributes from a listing's original
webpage via the enrichment microservice.

Contract: a 404-equivalent answer means the listing is gone and is
surfaced as utils.ErrListingGone, a business outcome rather than a failure.
Any other non-2xx answer or transport error is a scrape failure.
*/
type ListingScraper interface {
	Scrape(ctx context.Context, listingURL string) (models.Document, error)
}

type httpListingScraper struct {
	baseURL string
	client  *http.Client
}

func NewListingScraper(baseURL string) ListingScraper {
	return &httpListingScraper{
		baseURL: baseURL,
		client:  &http.Client{Timeout: constants.ScrapeTimeout},
	}
}

func (s *httpListingScraper) Scrape(ctx context.Context, listingURL string) (models.Document, error) {
	apiURL := s.baseURL + "/scrape?url=" + url.QueryEscape(listingURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, utils.ErrListingGone
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("scraper returned status %d for %s", resp.StatusCode, listingURL)
	}

	var doc models.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}
