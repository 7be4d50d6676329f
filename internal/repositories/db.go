package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

/*
DB is the slice of pgxpool.Pool the repositories need. Keeping it an
interface lets tests hand in a plain *pgx.Conn or a wrapper.
*/
type DB interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

func NewPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	return pgxpool.ConnectConfig(ctx, cfg)
}

// EnsureSchema creates the document tables when they are missing. Units
// are stored as JSONB documents keyed by the derived unit id; partial
// updates are field-level merges issued by the store, so concurrent
// writers touching different units never conflict.
func EnsureSchema(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS units (
			id   TEXT PRIMARY KEY,
			data JSONB NOT NULL
		)
	`)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS geocoding_failures (
			id        TEXT PRIMARY KEY,
			unit_data JSONB NOT NULL,
			reason    TEXT NOT NULL,
			ts        TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}
