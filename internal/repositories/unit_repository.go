package repositories

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v4"

	"github.com/spinonoir/housing-map-project/internal/constants"
	"github.com/spinonoir/housing-map-project/internal/models"
	"github.com/spinonoir/housing-map-project/internal/utils"
)

/* ───────────── public interface ───────────── */

type UnitRepository interface {
	// Get returns nil, nil when the id is absent.
	Get(ctx context.Context, id string) (models.Document, error)
	// Set is a full replace (insert-or-overwrite).
	Set(ctx context.Context, id string, doc models.Document) error
	// Update merges the partial document onto the stored one and fails
	// with ErrUnitNotFound when the id is absent.
	Update(ctx context.Context, id string, partial models.Document) error
	Delete(ctx context.Context, id string) error

	ListAll(ctx context.Context) ([]models.Document, error)
	// QueryEqual returns every unit whose field equals value.
	QueryEqual(ctx context.Context, field string, value any) ([]models.Document, error)
	Count(ctx context.Context) (int, error)

	// DeleteAll clears the store in committed groups of at most 500
	// mutations and returns the number of deleted units.
	DeleteAll(ctx context.Context) (int, error)
}

/* ───────────── implementation ───────────── */

type unitRepo struct {
	db DB
}

func NewUnitRepository(db DB) UnitRepository {
	return &unitRepo{db: db}
}

func (r *unitRepo) Get(ctx context.Context, id string) (models.Document, error) {
	row := r.db.QueryRow(ctx, `SELECT data FROM units WHERE id=$1`, id)
	return scanDocument(row)
}

func (r *unitRepo) Set(ctx context.Context, id string, doc models.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO units (id, data) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data
	`, id, raw)
	return err
}

func (r *unitRepo) Update(ctx context.Context, id string, partial models.Document) error {
	if len(partial) == 0 {
		return nil
	}
	raw, err := json.Marshal(partial)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `UPDATE units SET data = data || $2 WHERE id=$1`, id, raw)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrUnitNotFound
	}
	return nil
}

func (r *unitRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM units WHERE id=$1`, id)
	return err
}

func (r *unitRepo) ListAll(ctx context.Context) ([]models.Document, error) {
	rows, err := r.db.Query(ctx, `SELECT data FROM units ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func (r *unitRepo) QueryEqual(ctx context.Context, field string, value any) ([]models.Document, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx,
		`SELECT data FROM units WHERE data->$1 = $2::jsonb ORDER BY id`, field, string(raw))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func (r *unitRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM units`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *unitRepo) DeleteAll(ctx context.Context) (int, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM units`)
	if err != nil {
		return 0, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	deleted := 0
	for start := 0; start < len(ids); start += constants.StoreBatchLimit {
		end := start + constants.StoreBatchLimit
		if end > len(ids) {
			end = len(ids)
		}
		batch := &pgx.Batch{}
		for _, id := range ids[start:end] {
			batch.Queue(`DELETE FROM units WHERE id=$1`, id)
		}
		// Each group commits before the next one starts.
		br := r.db.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return deleted, err
		}
		deleted += end - start
	}
	return deleted, nil
}

/* ---------- internals ---------- */

func scanDocument(row pgx.Row) (models.Document, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	var doc models.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func scanDocuments(rows pgx.Rows) ([]models.Document, error) {
	var out []models.Document
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var doc models.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}
