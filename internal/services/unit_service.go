package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/spinonoir/housing-map-project/internal/constants"
	"github.com/spinonoir/housing-map-project/internal/models"
	"github.com/spinonoir/housing-map-project/internal/repositories"
	"github.com/spinonoir/housing-map-project/internal/utils"
)

/* ------------------------------------------------------------------
   Unit service

   Read/update surface over the unit store plus the maintenance
   operations: bulk clear, reprocessing stored records with the current
   parsing rules, and the legacy parking cleanup.
------------------------------------------------------------------ */

type MaintenanceSummary struct {
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}

type ClearSummary struct {
	UnitsDeleted    int `json:"units_deleted"`
	FailuresDeleted int `json:"failures_deleted"`
}

type UnitService interface {
	GetUnit(ctx context.Context, id string) (models.Document, error)
	ListUnits(ctx context.Context) ([]models.Document, error)
	ListFavorites(ctx context.Context) ([]models.Document, error)

	// UpdateUnit applies a partial update to one unit. Store failures
	// are returned to the caller, unlike during bulk loops.
	UpdateUnit(ctx context.Context, id string, partial models.Document) error
	SetFavorite(ctx context.Context, id string, favorite bool) error
	SetStatus(ctx context.Context, id, status string) error

	ClearDatabase(ctx context.Context) (*ClearSummary, error)
	ReprocessExisting(ctx context.Context) *MaintenanceSummary
	FixParkingData(ctx context.Context) *MaintenanceSummary

	ListGeocodingFailures(ctx context.Context) ([]*models.GeocodingFailure, error)
	CountGeocodingFailures(ctx context.Context) (int, error)
	ResolveGeocodingFailure(ctx context.Context, id string) error
}

var parkingIntRe = regexp.MustCompile(`\d+`)

type unitService struct {
	units    repositories.UnitRepository
	failures repositories.GeocodingFailureRepository
}

func NewUnitService(units repositories.UnitRepository, failures repositories.GeocodingFailureRepository) UnitService {
	return &unitService{units: units, failures: failures}
}

func (s *unitService) GetUnit(ctx context.Context, id string) (models.Document, error) {
	return s.units.Get(ctx, id)
}

func (s *unitService) ListUnits(ctx context.Context) ([]models.Document, error) {
	return s.units.ListAll(ctx)
}

func (s *unitService) ListFavorites(ctx context.Context) ([]models.Document, error) {
	return s.units.QueryEqual(ctx, models.FieldFavorite, true)
}

func (s *unitService) UpdateUnit(ctx context.Context, id string, partial models.Document) error {
	if len(partial) == 0 {
		return nil
	}
	return s.units.Update(ctx, id, partial)
}

func (s *unitService) SetFavorite(ctx context.Context, id string, favorite bool) error {
	return s.units.Update(ctx, id, models.Document{models.FieldFavorite: favorite})
}

var validStatuses = map[string]bool{
	constants.StatusAvailable:     true,
	constants.StatusFavorite:      true,
	constants.StatusNotInterested: true,
	constants.StatusOffMarket:     true,
}

func (s *unitService) SetStatus(ctx context.Context, id, status string) error {
	if !validStatuses[status] {
		return utils.ErrInvalidStatus
	}
	return s.units.Update(ctx, id, models.Document{models.FieldStatus: status})
}

func (s *unitService) ClearDatabase(ctx context.Context) (*ClearSummary, error) {
	unitsDeleted, err := s.units.DeleteAll(ctx)
	if err != nil {
		return nil, err
	}
	failuresDeleted, err := s.failures.DeleteAll(ctx)
	if err != nil {
		return nil, err
	}
	utils.Logger.Infof("Cleared store: %d units, %d geocoding failures", unitsDeleted, failuresDeleted)
	return &ClearSummary{UnitsDeleted: unitsDeleted, FailuresDeleted: failuresDeleted}, nil
}

// ReprocessExisting re-runs the current normalization rules over every
// stored unit. Only scalar fields are renormalized; already-structured
// fields (amenities, utilities, subsidy) and unit metadata are carried
// over untouched. Favorites survive reprocessing.
func (s *unitService) ReprocessExisting(ctx context.Context) *MaintenanceSummary {
	summary := &MaintenanceSummary{}

	all, err := s.units.ListAll(ctx)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to stream units for reprocessing")
		summary.Errors++
		return summary
	}

	for _, doc := range all {
		scalars := make(map[string]any)
		for k, v := range doc {
			switch v.(type) {
			case map[string]any, []any:
				// structured already
			default:
				scalars[k] = v
			}
		}

		parsed := utils.NormalizeRow(scalars)
		// Carry metadata and every structured field forward.
		for k, v := range doc {
			switch v.(type) {
			case map[string]any, []any:
				parsed[k] = v
			}
		}
		parsed.Merge(models.Document{
			models.FieldID:            doc.ID(),
			models.FieldFirstSeenDate: doc[models.FieldFirstSeenDate],
			models.FieldLastSeenDate:  doc[models.FieldLastSeenDate],
			models.FieldBatchID:       doc[models.FieldBatchID],
			models.FieldFavorite:      doc.Bool(models.FieldFavorite),
		})
		if status := doc.String(models.FieldStatus); status != "" {
			parsed[models.FieldStatus] = status
		} else {
			parsed[models.FieldStatus] = constants.StatusAvailable
		}

		if err := s.units.Set(ctx, doc.ID(), parsed); err != nil {
			utils.Logger.WithError(err).Errorf("Failed to reprocess unit %s", doc.ID())
			summary.Errors++
			continue
		}
		summary.Updated++
	}
	return summary
}

// FixParkingData repairs legacy records whose parking field was stored
// as free text ("No Parking", "2 spaces").
func (s *unitService) FixParkingData(ctx context.Context) *MaintenanceSummary {
	summary := &MaintenanceSummary{}

	all, err := s.units.ListAll(ctx)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to stream units for parking fix")
		summary.Errors++
		return summary
	}

	for _, doc := range all {
		raw, ok := doc[models.FieldParking].(string)
		if !ok {
			continue
		}

		parking := 0
		lower := strings.ToLower(raw)
		zeroed := false
		for _, phrase := range constants.NoParkingPhrases {
			if strings.Contains(lower, phrase) {
				zeroed = true
				break
			}
		}
		if !zeroed {
			if m := parkingIntRe.FindString(raw); m != "" {
				if n, err := strconv.Atoi(m); err == nil {
					parking = n
				}
			}
		}

		if err := s.units.Update(ctx, doc.ID(), models.Document{models.FieldParking: parking}); err != nil {
			utils.Logger.WithError(err).Errorf("Failed to fix parking for unit %s", doc.ID())
			summary.Errors++
			continue
		}
		summary.Updated++
	}
	return summary
}

func (s *unitService) ListGeocodingFailures(ctx context.Context) ([]*models.GeocodingFailure, error) {
	return s.failures.ListAll(ctx)
}

func (s *unitService) CountGeocodingFailures(ctx context.Context) (int, error) {
	return s.failures.Count(ctx)
}

func (s *unitService) ResolveGeocodingFailure(ctx context.Context, id string) error {
	return s.failures.Delete(ctx, id)
}
