package routes

const (
	// Health
	Health = "/health"

	// Units
	Units           = "/api/v1/units"
	UnitsUpload     = "/api/v1/units/upload"
	UnitsFavorites  = "/api/v1/units/favorites"
	UnitsReprocess  = "/api/v1/units/reprocess"
	UnitsFixParking = "/api/v1/units/fix-parking"
	UnitByID        = "/api/v1/units/{id}"
	UnitFavorite    = "/api/v1/units/{id}/favorite"
	UnitStatus      = "/api/v1/units/{id}/status"

	// Pipeline
	PipelineRun = "/api/v1/pipeline/run"

	// Geocoding failure log
	GeocodingFailures     = "/api/v1/geocoding-failures"
	GeocodingFailureCount = "/api/v1/geocoding-failures/count"
	GeocodingFailureByID  = "/api/v1/geocoding-failures/{id}"

	// Scraper microservice
	Scrape = "/scrape"
)
