package services

import (
	"context"
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/spinonoir/housing-map-project/internal/constants"
	"github.com/spinonoir/housing-map-project/internal/models"
	"github.com/spinonoir/housing-map-project/internal/repositories"
	"github.com/spinonoir/housing-map-project/internal/utils"
)

/* ------------------------------------------------------------------
   Upload / upsert engine

   Takes uploaded tabular rows, derives each unit's stable identity and
   inserts-or-updates against the unit store. Re-uploading the same file
   updates, never duplicates. A failure on one row is logged and skipped;
   a bulk upload must not abort on one bad record.
------------------------------------------------------------------ */

type UploadSummary struct {
	Inserted    int `json:"inserted"`
	Updated     int `json:"updated"`
	SkippedRows int `json:"skipped_rows"`
}

type UploadService interface {
	// UploadCSV reads a CSV stream (header row required) and upserts
	// every parseable row. Malformed rows are skipped and counted.
	UploadCSV(ctx context.Context, r io.Reader) (*UploadSummary, error)
	UpsertBatch(ctx context.Context, rows []map[string]any) *UploadSummary
}

type uploadService struct {
	units repositories.UnitRepository
}

func NewUploadService(units repositories.UnitRepository) UploadService {
	return &uploadService{units: units}
}

// Values the CSV boundary treats as missing.
var csvNAValues = map[string]bool{
	"": true, "N/A": true, "n/a": true, "null": true, "NULL": true, "-": true,
}

func (s *uploadService) UploadCSV(ctx context.Context, r io.Reader) (*UploadSummary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	// Column names are case/space-insensitive: "Property Address" and
	// "property_address" address the same field.
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
	}

	var rows []map[string]any
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		if len(record) != len(columns) {
			skipped++
			continue
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			v := strings.TrimSpace(record[i])
			if csvNAValues[v] {
				continue
			}
			row[col] = v
		}
		rows = append(rows, row)
	}

	summary := s.UpsertBatch(ctx, rows)
	summary.SkippedRows += skipped
	return summary, nil
}

func (s *uploadService) UpsertBatch(ctx context.Context, rows []map[string]any) *UploadSummary {
	summary := &UploadSummary{}

	// Every row in one call shares the batch id; it is stamped on
	// inserts only.
	batchID := "batch_" + time.Now().Format("20060102150405")
	now := time.Now().UTC().Format(time.RFC3339)

	for _, row := range rows {
		address := trimmedString(row[models.FieldAddress])
		unitNum := trimmedString(row[models.FieldUnit])
		zipCode := trimmedString(row[models.FieldZipCode])

		// Identity fields are required; a row without them produces no
		// record and no log entry.
		if address == "" || zipCode == "" {
			summary.SkippedRows++
			continue
		}

		id := utils.DeriveUnitID(address, unitNum, zipCode)
		normalized := utils.NormalizeRow(row)

		existing, err := s.units.Get(ctx, id)
		if err != nil {
			utils.Logger.WithError(err).Errorf("Failed to read unit %s during upload, skipping row", id)
			summary.SkippedRows++
			continue
		}

		if existing == nil {
			doc := normalized.Clone()
			doc.Merge(models.Document{
				models.FieldID:            id,
				models.FieldFirstSeenDate: now,
				models.FieldLastSeenDate:  now,
				models.FieldStatus:        constants.StatusAvailable,
				models.FieldBatchID:       batchID,
			})
			for _, field := range constants.TrackingFields {
				if _, ok := doc[field]; !ok {
					doc[field] = ""
				}
			}
			if err := s.units.Set(ctx, id, doc); err != nil {
				utils.Logger.WithError(err).Errorf("Failed to insert unit %s, skipping row", id)
				summary.SkippedRows++
				continue
			}
			summary.Inserted++
		} else {
			update := normalized.Clone()
			update[models.FieldLastSeenDate] = now
			// A refresh pass sees the unit listed again, so it is
			// available until enrichment says otherwise.
			update[models.FieldStatus] = constants.StatusAvailable
			// Never let a bulk refresh reset a favorite.
			if fav, ok := existing[models.FieldFavorite]; ok {
				update[models.FieldFavorite] = fav
			}
			if err := s.units.Update(ctx, id, update); err != nil {
				utils.Logger.WithError(err).Errorf("Failed to update unit %s, skipping row", id)
				summary.SkippedRows++
				continue
			}
			summary.Updated++
		}
	}

	return summary
}

func trimmedString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
