package config

import (
	"os"
	"strconv"

	"github.com/spinonoir/housing-map-project/internal/utils"
)

const (
	StoreBackendMemory   = "memory"
	StoreBackendPostgres = "postgres"
)

type Config struct {
	AppName      string
	Env          string
	AppPort      string
	StoreBackend string
	DBUrl        string
	GMapsAPIKey  string
	ScraperURL   string

	PipelineBatchSize  int
	PipelineMaxWorkers int

	// Cron spec for the scheduled refresh pass; empty disables it.
	RefreshCronSpec string
}

// LoadConfig reads the tracker's configuration from the environment.
// Required vars are fatal when missing; tunables fall back to defaults.
func LoadConfig(appName string) *Config {
	utils.Logger.Info("Loading config for app: ", appName)

	env := os.Getenv("ENV")
	if env == "" {
		utils.Logger.Fatal("ENV env var is missing")
	}
	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}

	backend := os.Getenv("STORE_BACKEND")
	if backend == "" {
		backend = StoreBackendPostgres
	}
	if backend != StoreBackendMemory && backend != StoreBackendPostgres {
		utils.Logger.Fatalf("STORE_BACKEND must be %q or %q, got %q", StoreBackendMemory, StoreBackendPostgres, backend)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if backend == StoreBackendPostgres && dbURL == "" {
		utils.Logger.Fatal("DATABASE_URL env var is missing")
	}

	gmapsKey := os.Getenv("GMAPS_API_KEY")
	if gmapsKey == "" {
		utils.Logger.Warn("GMAPS_API_KEY is not set; pipeline passes will log every unit as a geocoding failure")
	}

	scraperURL := os.Getenv("SCRAPER_URL")
	if scraperURL == "" {
		utils.Logger.Warn("SCRAPER_URL is not set; units will be processed without listing enrichment")
	}

	return &Config{
		AppName:            appName,
		Env:                env,
		AppPort:            appPort,
		StoreBackend:       backend,
		DBUrl:              dbURL,
		GMapsAPIKey:        gmapsKey,
		ScraperURL:         scraperURL,
		PipelineBatchSize:  intEnv("PIPELINE_BATCH_SIZE", 0),
		PipelineMaxWorkers: intEnv("PIPELINE_WORKERS", 0),
		RefreshCronSpec:    os.Getenv("REFRESH_CRON"),
	}
}

// LoadScraperConfig reads the smaller env surface the scraper needs.
func LoadScraperConfig(appName string) *Config {
	utils.Logger.Info("Loading config for app: ", appName)

	env := os.Getenv("ENV")
	if env == "" {
		utils.Logger.Fatal("ENV env var is missing")
	}
	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}

	return &Config{
		AppName: appName,
		Env:     env,
		AppPort: appPort,
	}
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		utils.Logger.Fatalf("%s must be a positive integer, got %q", key, raw)
	}
	return n
}
