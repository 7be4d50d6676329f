package constants

import "time"

// Pipeline tuning. The outer batch loop is the throttle that keeps us
// under the geocoding provider's rate limits.
const (
	PipelineBatchSize  = 4
	PipelineMaxWorkers = 4

	GeocodeAttempts    = 3
	GeocodeTimeout     = 10 * time.Second
	GeocodeMissBackoff = 1 * time.Second
	GeocodeErrBackoff  = 2 * time.Second

	ScrapeTimeout = 30 * time.Second

	// Upper bound on one scheduled refresh pass.
	RefreshJobTimeout = 30 * time.Minute

	// Store-side limit on mutations per committed batch.
	StoreBatchLimit = 500

	// Derived unit ids are capped at the store's document-id limit.
	MaxUnitIDLength = 1500
)

// Metro anchor for geocode sanity checks. A hit farther than
// MaxGeocodeRadiusMiles from here is treated as a miss.
const (
	MetroCenterLat        = 34.0522
	MetroCenterLng        = -118.2437
	MetroSuffix           = "Los Angeles, CA"
	MaxGeocodeRadiusMiles = 150.0
)

// Unit statuses.
const (
	StatusAvailable     = "available"
	StatusFavorite      = "favorite"
	StatusNotInterested = "not_interested"
	StatusOffMarket     = "off_market"
)

// AmenityCategories is the closed amenity vocabulary. Every normalized
// unit carries the complete key set; order here is the canonical order.
var AmenityCategories = map[string][]string{
	"community": {
		"clubhouse", "fitness_center", "gym", "pool", "spa", "hot_tub", "sauna",
		"business_center", "conference_room", "rooftop_deck", "courtyard",
		"playground", "dog_park", "barbecue_area", "fire_pit", "game_room",
		"theater_room", "library", "concierge", "doorman", "security",
	},
	"indoor": {
		"air_conditioning", "heating", "hardwood_floors", "carpet", "tile_floors",
		"walk_in_closet", "ceiling_fans", "fireplace", "balcony", "patio",
		"bay_windows", "high_ceilings", "loft", "den", "office_space",
	},
	"kitchen": {
		"dishwasher", "garbage_disposal", "microwave", "refrigerator", "stove",
		"oven", "granite_counters", "stainless_steel_appliances", "island",
		"breakfast_bar", "pantry", "wine_fridge",
	},
	"other": {
		"parking_garage", "covered_parking", "laundry_in_unit", "laundry_on_site",
		"elevator", "wheelchair_accessible", "storage_unit", "bike_storage",
	},
}

// Utilities is the fixed utility key set.
var Utilities = []string{"electricity", "gas", "water", "sewer", "trash", "internet", "cable"}

// Utility responsibility values.
const (
	UtilityOwner   = "owner"
	UtilityTenant  = "tenant"
	UtilityUnknown = "unknown"
)

// TruthyValues maps free-text availability strings to true.
var TruthyValues = []string{"true", "yes", "1", "y", "available", "vacant"}

// NoParkingPhrases zero out the parking count when present in free text.
var NoParkingPhrases = []string{"no parking", "none", "n/a", "not available"}

// TrackingFields get an empty-string default on insert so the review
// workflow columns always exist.
var TrackingFields = []string{
	"level_of_interest", "viewing_scheduled", "availability_verified_date",
	"amenities", "questions_for_agent", "notes",
}
