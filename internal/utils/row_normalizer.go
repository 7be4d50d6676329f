// internal/utils/row_normalizer.go
package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spinonoir/housing-map-project/internal/constants"
	"github.com/spinonoir/housing-map-project/internal/models"
)

/* ------------------------------------------------------------------
   Row normalization

   Turns one uploaded row (column name -> raw value, column names already
   lowercased with underscores) into a partial unit document. Every rule
   degrades to a string fallback on a parse failure so one bad field never
   blocks the rest of the row. Unrecognized columns are kept as trimmed
   strings; the flexible_data bookkeeping column is always dropped.
------------------------------------------------------------------ */

var (
	decimalRe = regexp.MustCompile(`\d+\.?\d*`)
	integerRe = regexp.MustCompile(`\d+`)
	sqftRe    = regexp.MustCompile(`(?i)(sq\.?\s?ft\.?|square\s?feet|\s)`)
	rentRe    = regexp.MustCompile(`[\$,\s]`)
)

var countKeys = map[string]bool{
	"bedrooms": true, "bathrooms": true, "parking": true, "parking_spots": true,
}

func isIntCountKey(key string) bool {
	return key == "bedrooms" || key == "parking" || key == "parking_spots"
}

func isParkingKey(key string) bool {
	return key == "parking" || key == "parking_spots"
}

// NormalizeRow converts raw field values into the canonical typed shape.
func NormalizeRow(row map[string]any) models.Document {
	cleaned := models.Document{}

	for key, value := range row {
		if isEmptyValue(value) {
			continue
		}

		switch {
		case countKeys[key]:
			cleaned[key] = normalizeCount(key, value)

		case key == "square_feet" || key == "sqft" || key == "sq_ft" || key == "size":
			if n, ok := normalizeSquareFeet(value); ok {
				cleaned["square_feet"] = n
			}

		case key == "area" || key == "neighborhood" || key == "location":
			cleaned["area"] = strings.TrimSpace(stringify(value))

		case key == "rent" || key == "price" || key == "monthly_rent" || key == "cost":
			if n, ok := normalizeRent(value); ok {
				cleaned[key] = n
			}

		case key == "zip_code" || key == "zipcode" || key == "postal_code":
			if n, ok := normalizeZip(value); ok {
				cleaned["zip_code"] = n
			}
			// Anything that is not exactly five digits is dropped, not guessed.

		case key == "subsidy_accepted" || key == "subsidies" || key == "subsidy":
			cleaned["subsidy"] = normalizeSubsidy(value)

		case key == "available" || key == "availability":
			cleaned["available"] = normalizeAvailability(value)

		case key == "amenities" || key == "amenity":
			cleaned["amenities"] = NormalizeAmenities(stringify(value))

		case key == "utilities" || key == "utility":
			cleaned["utilities"] = NormalizeUtilities(stringify(value))

		case key == "latitude" || key == "lat" || key == "longitude" || key == "lng" || key == "lon":
			// A coordinate that fails to cast is omitted entirely rather
			// than degraded to a string: a textual latitude is worse than
			// none because it would mask the unit from the geocode pass.
			if f, ok := toFloat(value); ok {
				cleaned[key] = f
			}

		case key == "flexible_data":
			// dropped

		default:
			cleaned[key] = strings.TrimSpace(stringify(value))
		}
	}

	// New rows never inherit favorite status from the source file.
	cleaned["favorite"] = false

	return cleaned
}

func normalizeCount(key string, value any) any {
	s, isStr := value.(string)
	if !isStr {
		if f, ok := toFloat(value); ok {
			if isIntCountKey(key) {
				return int(f)
			}
			return f
		}
		return stringify(value)
	}

	lower := strings.ToLower(s)
	if strings.Contains(lower, "studio") {
		if key == "bedrooms" {
			return 0
		}
		return s
	}
	if isParkingKey(key) {
		for _, phrase := range constants.NoParkingPhrases {
			if strings.Contains(lower, phrase) {
				return 0
			}
		}
	}

	if m := decimalRe.FindString(s); m != "" {
		f, err := strconv.ParseFloat(m, 64)
		if err == nil {
			if isIntCountKey(key) {
				return int(f)
			}
			return f
		}
	}

	// No number found: parking defaults to zero, everything else keeps
	// the raw text.
	if isParkingKey(key) {
		return 0
	}
	return s
}

func normalizeSquareFeet(value any) (int, bool) {
	if s, ok := value.(string); ok {
		stripped := sqftRe.ReplaceAllString(s, "")
		if m := integerRe.FindString(stripped); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				return n, true
			}
		}
		return 0, false
	}
	if f, ok := toFloat(value); ok {
		return int(f), true
	}
	return 0, false
}

func normalizeRent(value any) (int, bool) {
	if s, ok := value.(string); ok {
		stripped := rentRe.ReplaceAllString(s, "")
		if m := integerRe.FindString(stripped); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				return n, true
			}
		}
		return 0, false
	}
	if f, ok := toFloat(value); ok {
		return int(f), true
	}
	return 0, false
}

func normalizeZip(value any) (int, bool) {
	s := strings.TrimSpace(stringify(value))
	if i := strings.Index(s, "-"); i >= 0 {
		s = s[:i]
	}
	if len(s) != 5 {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func normalizeSubsidy(value any) map[string]bool {
	subsidy := map[string]bool{"hacla": false, "bc": false}
	lower := strings.ToLower(stringify(value))
	if strings.Contains(lower, "hacla") {
		subsidy["hacla"] = true
	}
	if strings.Contains(lower, "bc") || strings.Contains(lower, "housing choice") {
		subsidy["bc"] = true
	}
	return subsidy
}

func normalizeAvailability(value any) bool {
	if s, ok := value.(string); ok {
		lower := strings.ToLower(s)
		for _, t := range constants.TruthyValues {
			if lower == t {
				return true
			}
		}
		return false
	}
	if b, ok := value.(bool); ok {
		return b
	}
	if f, ok := toFloat(value); ok {
		return f != 0
	}
	return false
}

// NormalizeAmenities scans free text against the closed amenity vocabulary
// and returns the complete category->amenity->bool mapping. Every key in
// the vocabulary is present in the result, matched or not.
func NormalizeAmenities(text string) map[string]map[string]bool {
	lower := strings.ToLower(text)

	amenities := make(map[string]map[string]bool, len(constants.AmenityCategories))
	for category, list := range constants.AmenityCategories {
		amenities[category] = make(map[string]bool, len(list))
		for _, amenity := range list {
			amenities[category][amenity] = false
		}
	}

	for category, list := range constants.AmenityCategories {
		for _, amenity := range list {
			variations := []string{
				amenity,
				strings.ReplaceAll(amenity, "_", " "),
				strings.ReplaceAll(amenity, "_", "-"),
			}
			for _, v := range variations {
				if strings.Contains(lower, v) {
					amenities[category][amenity] = true
					break
				}
			}
		}
	}
	return amenities
}

// NormalizeUtilities scans free text against the fixed utility set and
// assigns owner/tenant/unknown responsibility. A utility mentioned with
// no qualifying context is assumed tenant-paid.
func NormalizeUtilities(text string) map[string]string {
	lower := strings.ToLower(text)

	utilities := make(map[string]string, len(constants.Utilities))
	for _, u := range constants.Utilities {
		utilities[u] = constants.UtilityUnknown
	}

	ownerWords := []string{"included", "owner", "landlord", "paid"}
	tenantWords := []string{"tenant", "renter", "separate"}

	for _, u := range constants.Utilities {
		if !strings.Contains(lower, u) {
			continue
		}
		switch {
		case containsAny(lower, ownerWords):
			utilities[u] = constants.UtilityOwner
		case containsAny(lower, tenantWords):
			utilities[u] = constants.UtilityTenant
		default:
			utilities[u] = constants.UtilityTenant
		}
	}
	return utilities
}

/* ---------- small helpers ---------- */

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case float64:
		return math.IsNaN(t)
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", v)
	}
}
