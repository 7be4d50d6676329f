package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/spinonoir/housing-map-project/internal/config"
	"github.com/spinonoir/housing-map-project/internal/repositories"
	"github.com/spinonoir/housing-map-project/internal/utils"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
)

// App owns the tracker's storage backend. With STORE_BACKEND=memory the
// repositories are in-process maps, which is what local dev and the
// integration tests run against.
type App struct {
	Config   *config.Config
	DB       *pgxpool.Pool
	Units    repositories.UnitRepository
	Failures repositories.GeocodingFailureRepository
}

func NewApp(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	if cfg.StoreBackend == config.StoreBackendMemory {
		utils.Logger.Info("Using in-memory unit store")
		app.Units = repositories.NewMemoryUnitRepository()
		app.Failures = repositories.NewMemoryFailureRepository()
		return app, nil
	}

	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		dbPool, err = repositories.NewPool(ctx, cfg.DBUrl)
		if err == nil {
			utils.Logger.Infof("%s connected to DB on attempt %d", cfg.AppName, i)
			break
		}

		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			return nil, fmt.Errorf("unable to connect after %d attempts: %w", maxRetries, err)
		}
		time.Sleep(backoff)
		backoff *= 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := repositories.EnsureSchema(ctx, dbPool); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	app.DB = dbPool
	app.Units = repositories.NewUnitRepository(dbPool)
	app.Failures = repositories.NewGeocodingFailureRepository(dbPool)
	return app, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Infof("%s DB connection closed.", a.Config.AppName)
	}
}
