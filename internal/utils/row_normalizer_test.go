package utils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spinonoir/housing-map-project/internal/constants"
)

func TestNormalizeRowCounts(t *testing.T) {
	row := map[string]any{
		"bedrooms":  "2 Bedrooms",
		"bathrooms": "1.5 baths",
		"parking":   "2 spaces",
	}

	cleaned := NormalizeRow(row)

	require.Equal(t, 2, cleaned["bedrooms"])
	require.Equal(t, 1.5, cleaned["bathrooms"])
	require.Equal(t, 2, cleaned["parking"])
}

func TestNormalizeRowStudioMeansZeroBedrooms(t *testing.T) {
	cleaned := NormalizeRow(map[string]any{"bedrooms": "Studio"})
	require.Equal(t, 0, cleaned["bedrooms"])
}

func TestNormalizeRowParking(t *testing.T) {
	cases := map[string]any{
		"No Parking":       0,
		"none":             0,
		"street only, n/a": 0,
		"1 covered spot":   1,
		"garage":           0, // no number and no phrase still defaults to zero
	}
	for raw, want := range cases {
		cleaned := NormalizeRow(map[string]any{"parking": raw})
		require.Equal(t, want, cleaned["parking"], "parking %q", raw)
	}
}

func TestNormalizeRowBedroomsKeepRawTextWhenUnparseable(t *testing.T) {
	cleaned := NormalizeRow(map[string]any{"bedrooms": "call for details"})
	require.Equal(t, "call for details", cleaned["bedrooms"])
}

func TestNormalizeRowSquareFeet(t *testing.T) {
	cleaned := NormalizeRow(map[string]any{"square_feet": "850 sq ft"})
	require.Equal(t, 850, cleaned["square_feet"])

	cleaned = NormalizeRow(map[string]any{"sqft": "1,200 square feet"})
	require.Equal(t, 1, cleaned["square_feet"], "commas are not stripped, first integer wins")

	cleaned = NormalizeRow(map[string]any{"size": "spacious"})
	_, ok := cleaned["square_feet"]
	require.False(t, ok, "unparseable square footage is dropped")
}

func TestNormalizeRowRent(t *testing.T) {
	cleaned := NormalizeRow(map[string]any{"rent": "$1,250 /mo"})
	require.Equal(t, 1250, cleaned["rent"])

	cleaned = NormalizeRow(map[string]any{"price": 1800})
	require.Equal(t, 1800, cleaned["price"])
}

func TestNormalizeRowZipCode(t *testing.T) {
	cleaned := NormalizeRow(map[string]any{"zip_code": "90001-1234"})
	require.Equal(t, 90001, cleaned["zip_code"])

	cleaned = NormalizeRow(map[string]any{"zipcode": "90802"})
	require.Equal(t, 90802, cleaned["zip_code"])

	cleaned = NormalizeRow(map[string]any{"zip_code": "abcde"})
	_, ok := cleaned["zip_code"]
	require.False(t, ok)

	cleaned = NormalizeRow(map[string]any{"zip_code": "123"})
	_, ok = cleaned["zip_code"]
	require.False(t, ok, "zips that are not five digits are dropped, not guessed")
}

func TestNormalizeRowAreaAliases(t *testing.T) {
	for _, key := range []string{"area", "neighborhood", "location"} {
		cleaned := NormalizeRow(map[string]any{key: " Koreatown "})
		require.Equal(t, "Koreatown", cleaned["area"], "key %q", key)
	}
}

func TestNormalizeRowAvailability(t *testing.T) {
	for _, truthy := range []string{"yes", "TRUE", "1", "Available", "vacant"} {
		cleaned := NormalizeRow(map[string]any{"available": truthy})
		require.Equal(t, true, cleaned["available"], "value %q", truthy)
	}
	cleaned := NormalizeRow(map[string]any{"availability": "no"})
	require.Equal(t, false, cleaned["available"])
}

func TestNormalizeRowSubsidy(t *testing.T) {
	cleaned := NormalizeRow(map[string]any{"subsidy_accepted": "HACLA and BC welcome"})
	subsidy, ok := cleaned["subsidy"].(map[string]bool)
	require.True(t, ok)
	require.True(t, subsidy["hacla"])
	require.True(t, subsidy["bc"])

	cleaned = NormalizeRow(map[string]any{"subsidy": "none"})
	subsidy = cleaned["subsidy"].(map[string]bool)
	require.False(t, subsidy["hacla"])
	require.False(t, subsidy["bc"])
}

func TestNormalizeRowCoordinates(t *testing.T) {
	cleaned := NormalizeRow(map[string]any{"latitude": "34.0522", "longitude": -118.2437})
	require.Equal(t, 34.0522, cleaned["latitude"])
	require.Equal(t, -118.2437, cleaned["longitude"])

	cleaned = NormalizeRow(map[string]any{"latitude": "unknown"})
	_, ok := cleaned["latitude"]
	require.False(t, ok, "textual coordinates would mask the unit from geocoding")
}

func TestNormalizeRowDropsFlexibleDataAndEmpties(t *testing.T) {
	cleaned := NormalizeRow(map[string]any{
		"flexible_data": "legacy blob",
		"notes":         "",
		"agent":         nil,
	})
	_, ok := cleaned["flexible_data"]
	require.False(t, ok)
	_, ok = cleaned["notes"]
	require.False(t, ok)
	_, ok = cleaned["agent"]
	require.False(t, ok)
}

func TestNormalizeRowNeverInheritsFavorite(t *testing.T) {
	cleaned := NormalizeRow(map[string]any{"favorite": "true"})
	require.Equal(t, false, cleaned["favorite"])
}

func TestNormalizeAmenitiesFullKeySet(t *testing.T) {
	amenities := NormalizeAmenities("pool, gym, dishwasher and in building elevator")

	// Every category and amenity key exists regardless of matches.
	for category, list := range constants.AmenityCategories {
		require.Contains(t, amenities, category)
		require.Len(t, amenities[category], len(list))
	}

	require.True(t, amenities["community"]["pool"])
	require.True(t, amenities["community"]["gym"])
	require.True(t, amenities["kitchen"]["dishwasher"])
	require.True(t, amenities["other"]["elevator"])
	require.False(t, amenities["indoor"]["fireplace"])
}

func TestNormalizeAmenitiesMatchesSpaceAndHyphenVariants(t *testing.T) {
	amenities := NormalizeAmenities("walk-in closet, hardwood floors")
	require.True(t, amenities["indoor"]["walk_in_closet"])
	require.True(t, amenities["indoor"]["hardwood_floors"])
}

func TestNormalizeUtilities(t *testing.T) {
	utilities := NormalizeUtilities("water and trash included")
	require.Equal(t, constants.UtilityOwner, utilities["water"])
	require.Equal(t, constants.UtilityOwner, utilities["trash"])
	require.Equal(t, constants.UtilityUnknown, utilities["electricity"])

	// Mentioned with no qualifier is assumed tenant-paid.
	utilities = NormalizeUtilities("gas stove hookup")
	require.Equal(t, constants.UtilityTenant, utilities["gas"])

	// Full key set always present.
	require.Len(t, utilities, len(constants.Utilities))
}
