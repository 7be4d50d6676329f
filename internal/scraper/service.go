// internal/scraper/service.go
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spinonoir/housing-map-project/internal/dtos"
)

// UpstreamStatusError reports a non-2xx answer from the listing site so
// the handler can pass a 404 through to the tracker (its off-market
// signal) instead of flattening everything into a 502.
type UpstreamStatusError struct {
	StatusCode int
	URL        string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d for %s", e.StatusCode, e.URL)
}

type Service struct {
	client *http.Client
}

func NewService() *Service {
	return &Service{client: &http.Client{Timeout: 20 * time.Second}}
}

// FetchListing downloads the listing page and runs the extractors.
func (s *Service) FetchListing(ctx context.Context, listingURL string) (*dtos.ScrapedListing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamStatusError{StatusCode: resp.StatusCode, URL: listingURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return Extract(listingURL, string(body)), nil
}
