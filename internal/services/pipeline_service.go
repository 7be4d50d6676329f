package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spinonoir/housing-map-project/internal/clients"
	"github.com/spinonoir/housing-map-project/internal/constants"
	"github.com/spinonoir/housing-map-project/internal/models"
	"github.com/spinonoir/housing-map-project/internal/repositories"
	"github.com/spinonoir/housing-map-project/internal/utils"
)

/* ------------------------------------------------------------------
   Batch processing pipeline

   Selects every unit with missing coordinates and runs each through
   geocode -> conditional enrich -> store update. Units are processed in
   fixed-size batches; workers within a batch run concurrently, batches
   run sequentially so the outer loop throttles calls against the
   geocoding provider's rate limits. Exactly one terminal outcome per
   unit per pass.
------------------------------------------------------------------ */

type PipelineResults struct {
	Processed         int `json:"processed"`
	GeocodingFailed   int `json:"geocoding_failed"`
	ScrapingFailed    int `json:"scraping_failed"`
	ProcessedNoScrape int `json:"processed_no_scrape"`
}

func (r *PipelineResults) total() int {
	return r.Processed + r.GeocodingFailed + r.ScrapingFailed + r.ProcessedNoScrape
}

// Per-unit terminal outcomes.
type unitOutcome int

const (
	outcomeProcessed unitOutcome = iota
	outcomeGeocodeFailed
	outcomeScrapeFailed
	outcomeProcessedNoScrape
)

type PipelineService struct {
	units    repositories.UnitRepository
	failures repositories.GeocodingFailureRepository
	geocoder clients.Geocoder
	scraper  clients.ListingScraper

	batchSize  int
	maxWorkers int

	running atomic.Bool

	// sleep is swappable so tests don't wait out real backoffs.
	sleep func(time.Duration)
}

func NewPipelineService(
	units repositories.UnitRepository,
	failures repositories.GeocodingFailureRepository,
	geocoder clients.Geocoder,
	scraper clients.ListingScraper,
	batchSize, maxWorkers int,
) *PipelineService {
	if batchSize <= 0 {
		batchSize = constants.PipelineBatchSize
	}
	if maxWorkers <= 0 {
		maxWorkers = constants.PipelineMaxWorkers
	}
	return &PipelineService{
		units:      units,
		failures:   failures,
		geocoder:   geocoder,
		scraper:    scraper,
		batchSize:  batchSize,
		maxWorkers: maxWorkers,
		sleep:      time.Sleep,
	}
}

// ProcessPending runs one full pass over every unit that still needs
// geocoding. When nothing is pending it returns zero counts immediately
// without contacting any external collaborator.
func (s *PipelineService) ProcessPending(ctx context.Context) (*PipelineResults, error) {
	all, err := s.units.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var pending []models.Document
	for _, doc := range all {
		if _, ok := doc.Float(models.FieldLatitude); !ok {
			pending = append(pending, doc)
		}
	}

	results := &PipelineResults{}
	if len(pending) == 0 {
		utils.Logger.Info("All units appear to be geocoded, nothing to process")
		return results, nil
	}

	numBatches := (len(pending) + s.batchSize - 1) / s.batchSize
	utils.Logger.Infof("Processing %d pending units in %d batches", len(pending), numBatches)

	var mu sync.Mutex
	for i := 0; i < numBatches; i++ {
		start := i * s.batchSize
		end := start + s.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		utils.Logger.Infof("Processing batch %d/%d...", i+1, numBatches)

		var wg sync.WaitGroup
		sem := make(chan struct{}, s.maxWorkers)
		for _, doc := range pending[start:end] {
			wg.Add(1)
			sem <- struct{}{}
			go func(doc models.Document) {
				defer wg.Done()
				defer func() { <-sem }()
				outcome := s.processUnit(ctx, doc)
				mu.Lock()
				switch outcome {
				case outcomeProcessed:
					results.Processed++
				case outcomeGeocodeFailed:
					results.GeocodingFailed++
				case outcomeScrapeFailed:
					results.ScrapingFailed++
				case outcomeProcessedNoScrape:
					results.ProcessedNoScrape++
				}
				mu.Unlock()
			}(doc)
		}
		wg.Wait()
	}

	utils.Logger.Infof("Pipeline pass complete: %d units, %+v", results.total(), *results)
	return results, nil
}

// RunIfIdle triggers a pass unless one is already in flight, so the
// cron schedule and the HTTP trigger never double-process a unit.
func (s *PipelineService) RunIfIdle(ctx context.Context) (*PipelineResults, error) {
	if !s.running.CompareAndSwap(false, true) {
		utils.Logger.Warn("Pipeline pass already running, skipping trigger")
		return nil, utils.ErrPipelineBusy
	}
	defer s.running.Store(false)

	return s.ProcessPending(ctx)
}

/* ---------- per-unit state machine ---------- */

func (s *PipelineService) processUnit(ctx context.Context, doc models.Document) unitOutcome {
	id := doc.ID()

	if _, ok := doc.Float(models.FieldLatitude); !ok {
		coords := s.geocodeWithRetry(ctx, doc)
		if coords == nil {
			s.logGeocodingFailure(ctx, doc, "Geocoding failed")
			return outcomeGeocodeFailed
		}
		update := models.Document{
			models.FieldLatitude:    coords.Latitude,
			models.FieldLongitude:   coords.Longitude,
			models.FieldDisplayName: coords.DisplayName,
		}
		if err := s.units.Update(ctx, id, update); err != nil {
			utils.Logger.WithError(err).Errorf("Failed to store coordinates for unit %s", id)
			s.logGeocodingFailure(ctx, doc, fmt.Sprintf("Storing coordinates failed: %v", err))
			return outcomeGeocodeFailed
		}
	}

	link := doc.String(models.FieldListingLink)
	if s.scraper == nil || link == "" || !strings.HasPrefix(link, "http") {
		return outcomeProcessedNoScrape
	}

	scraped, err := s.scraper.Scrape(ctx, link)
	switch {
	case errors.Is(err, utils.ErrListingGone):
		// Listing page is gone: a legitimate off-market signal.
		if err := s.units.Update(ctx, id, models.Document{models.FieldStatus: constants.StatusOffMarket}); err != nil {
			utils.Logger.WithError(err).Errorf("Failed to mark unit %s off-market", id)
		}
		return outcomeProcessed
	case err != nil:
		utils.Logger.WithError(err).Warnf("Scraping failed for %s", link)
		return outcomeScrapeFailed
	default:
		// A successful structured response is merged wholesale.
		if err := s.units.Update(ctx, id, scraped); err != nil {
			utils.Logger.WithError(err).Errorf("Failed to merge scraped fields into unit %s", id)
			return outcomeScrapeFailed
		}
		return outcomeProcessed
	}
}

func (s *PipelineService) geocodeWithRetry(ctx context.Context, doc models.Document) *models.GeocodeResult {
	if s.geocoder == nil {
		return nil
	}
	zipStr := doc.String(models.FieldZipCode)
	if zipStr == "" {
		if zip, ok := doc.Float(models.FieldZipCode); ok {
			zipStr = strconv.Itoa(int(zip))
		}
	}
	fullAddress := fmt.Sprintf("%s, %s, %s", doc.String(models.FieldAddress), zipStr, constants.MetroSuffix)

	for attempt := 0; attempt < constants.GeocodeAttempts; attempt++ {
		result, err := s.geocoder.Geocode(ctx, fullAddress)
		if err != nil {
			// Transient timeout/unavailable: wait a little longer than
			// after a plain miss before the next attempt.
			utils.Logger.WithError(err).Debugf("Geocode attempt %d failed for %q", attempt+1, fullAddress)
			if attempt < constants.GeocodeAttempts-1 {
				s.sleep(constants.GeocodeErrBackoff)
			}
			continue
		}
		if result != nil {
			return result
		}
		if attempt < constants.GeocodeAttempts-1 {
			s.sleep(constants.GeocodeMissBackoff)
		}
	}
	return nil
}

func (s *PipelineService) logGeocodingFailure(ctx context.Context, doc models.Document, reason string) {
	failure := &models.GeocodingFailure{
		UnitData:  doc.Clone(),
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}
	if err := s.failures.Add(ctx, failure); err != nil {
		utils.Logger.WithError(err).Errorf("Failed to log geocoding failure for unit %s", doc.ID())
	}
}
