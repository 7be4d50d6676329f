package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchListingParsesUpstreamPage(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingPage))
	}))
	defer upstream.Close()

	svc := NewService()
	listing, err := svc.FetchListing(context.Background(), upstream.URL)
	require.NoError(t, err)

	require.Equal(t, upstream.URL, listing.URL)
	require.NotNil(t, listing.Rent)
	require.Equal(t, 1850, *listing.Rent)
}

func TestFetchListingSurfacesUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer upstream.Close()

	svc := NewService()
	_, err := svc.FetchListing(context.Background(), upstream.URL)

	var statusErr *UpstreamStatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestScrapeListingHandler(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingPage))
	}))
	defer upstream.Close()

	controller := NewController(NewService())

	req := httptest.NewRequest(http.MethodGet, "/scrape?url="+upstream.URL, nil)
	rec := httptest.NewRecorder()
	controller.ScrapeListing(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Missing or relative url is rejected before any fetch.
	req = httptest.NewRequest(http.MethodGet, "/scrape?url=not-a-url", nil)
	rec = httptest.NewRecorder()
	controller.ScrapeListing(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScrapeListingHandlerPassesThrough404(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer upstream.Close()

	controller := NewController(NewService())

	req := httptest.NewRequest(http.MethodGet, "/scrape?url="+upstream.URL, nil)
	rec := httptest.NewRecorder()
	controller.ScrapeListing(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
