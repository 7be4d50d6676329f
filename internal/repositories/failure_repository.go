package repositories

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/spinonoir/housing-map-project/internal/models"
	"github.com/spinonoir/housing-map-project/internal/utils"
)

/* ───────────── public interface ───────────── */

// GeocodingFailureRepository is the append-only side log of geocode
// attempts that exhausted their retries. Records have no update
// semantics; they live until explicitly resolved (deleted).
type GeocodingFailureRepository interface {
	Add(ctx context.Context, f *models.GeocodingFailure) error
	ListAll(ctx context.Context) ([]*models.GeocodingFailure, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int, error)
}

/* ───────────── implementation ───────────── */

type failureRepo struct {
	db DB
}

func NewGeocodingFailureRepository(db DB) GeocodingFailureRepository {
	return &failureRepo{db: db}
}

func (r *failureRepo) Add(ctx context.Context, f *models.GeocodingFailure) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	raw, err := json.Marshal(f.UnitData)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO geocoding_failures (id, unit_data, reason, ts)
		VALUES ($1, $2, $3, $4)
	`, f.ID, raw, f.Reason, f.Timestamp)
	return err
}

func (r *failureRepo) ListAll(ctx context.Context) ([]*models.GeocodingFailure, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, unit_data, reason, ts FROM geocoding_failures ORDER BY ts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.GeocodingFailure
	for rows.Next() {
		f, err := scanFailure(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *failureRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM geocoding_failures`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *failureRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM geocoding_failures WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrFailureNotFound
	}
	return nil
}

func (r *failureRepo) DeleteAll(ctx context.Context) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM geocoding_failures`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

/* ---------- internals ---------- */

func scanFailure(row pgx.Row) (*models.GeocodingFailure, error) {
	var f models.GeocodingFailure
	var raw []byte
	if err := row.Scan(&f.ID, &raw, &f.Reason, &f.Timestamp); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &f.UnitData); err != nil {
		return nil, err
	}
	return &f, nil
}
