// internal/scraper/extract.go
package scraper

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/spinonoir/housing-map-project/internal/constants"
	"github.com/spinonoir/housing-map-project/internal/dtos"
)

/* ------------------------------------------------------------------
   Field extraction heuristics

   Listing pages are messy: the extractors work off the page's visible
   text with regex/keyword scans rather than a DOM walk, the same way
   the rest of the normalization layer treats free text. Every extractor
   is independent; a miss returns nil/zero and never fails the request.
------------------------------------------------------------------ */

var (
	scriptRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
	spaceRe  = regexp.MustCompile(`\s+`)

	availSpanRe = regexp.MustCompile(`(?is)<span[^>]*id=["']spanAvailable["'][^>]*>(.*?)</span>`)

	sqftPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*sq\.?\s*ft\.?`),
		regexp.MustCompile(`(?i)(\d+)\s*square\s*feet`),
		regexp.MustCompile(`(?i)size:?\s*(\d+)`),
		regexp.MustCompile(`(?i)(\d+)\s*sqft`),
	}

	bedroomPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*bed`),
		regexp.MustCompile(`(?i)(\d+)\s*br`),
		regexp.MustCompile(`(?i)bedroom[s]?:?\s*(\d+)`),
	}

	bathroomPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+\.?\d*)\s*bath`),
		regexp.MustCompile(`(?i)(\d+\.?\d*)\s*ba`),
		regexp.MustCompile(`(?i)bathroom[s]?:?\s*(\d+\.?\d*)`),
	}

	rentCommaRe = regexp.MustCompile(`\$(\d{1,4}),(\d{3})`)
	rentPlainRe = regexp.MustCompile(`\$(\d{3,4})`)

	imgRe    = regexp.MustCompile(`(?is)<img[^>]*>`)
	imgSrcRe = regexp.MustCompile(`(?i)(?:data-src|src)=["']([^"']+)["']`)
)

// pageText strips markup and collapses whitespace so keyword scans see
// the page roughly the way a reader does.
func pageText(page string) string {
	text := scriptRe.ReplaceAllString(page, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	return spaceRe.ReplaceAllString(text, " ")
}

// Extract runs every field extractor over the fetched page.
func Extract(listingURL, page string) *dtos.ScrapedListing {
	text := pageText(page)
	lower := strings.ToLower(text)

	return &dtos.ScrapedListing{
		URL:          listingURL,
		Availability: extractAvailability(page),
		SquareFeet:   extractSquareFeet(text),
		Bedrooms:     extractBedrooms(lower),
		Bathrooms:    extractBathrooms(text),
		Rent:         extractRent(text),
		Subsidy:      extractSubsidy(lower),
		Amenities:    extractAmenities(lower),
		Utilities:    extractUtilities(lower),
		Photos:       extractPhotos(page),
	}
}

func extractAvailability(page string) *bool {
	m := availSpanRe.FindStringSubmatch(page)
	if m == nil {
		return nil
	}
	inner := strings.ToLower(strings.TrimSpace(tagRe.ReplaceAllString(m[1], " ")))
	if inner == "" {
		return nil
	}
	v := strings.Contains(inner, "available") || strings.Contains(inner, "vacant")
	return &v
}

func extractSquareFeet(text string) *int {
	for _, re := range sqftPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return &n
			}
		}
	}
	return nil
}

func extractBedrooms(lower string) *int {
	if strings.Contains(lower, "studio") {
		zero := 0
		return &zero
	}
	for _, re := range bedroomPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return &n
			}
		}
	}
	return nil
}

func extractBathrooms(text string) *float64 {
	for _, re := range bathroomPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if f, err := strconv.ParseFloat(m[1], 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func extractRent(text string) *int {
	if m := rentCommaRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1] + m[2]); err == nil {
			return &n
		}
	}
	if m := rentPlainRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return &n
		}
	}
	return nil
}

func extractSubsidy(lower string) map[string]bool {
	subsidy := map[string]bool{"hacla": false, "bc": false}
	if strings.Contains(lower, "hacla") || strings.Contains(lower, "housing authority") {
		subsidy["hacla"] = true
	}
	for _, term := range []string{"housing choice", "section 8", "voucher"} {
		if strings.Contains(lower, term) {
			subsidy["bc"] = true
			break
		}
	}
	return subsidy
}

// amenitySynonyms widens the scan beyond the canonical names; listing
// pages rarely say "laundry_in_unit".
var amenitySynonyms = map[string][]string{
	"fitness_center":        {"gym", "fitness room", "workout room"},
	"air_conditioning":      {"ac", "a/c", "central air"},
	"garbage_disposal":      {"disposal", "garbage disposal"},
	"laundry_in_unit":       {"washer dryer", "w/d", "laundry hookup"},
	"parking_garage":        {"garage", "covered parking"},
	"wheelchair_accessible": {"ada", "accessible", "handicap accessible"},
}

func extractAmenities(lower string) map[string]map[string]bool {
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
				strings.ReplaceAll(amenity, "_", ""),
			}
			variations = append(variations, amenitySynonyms[amenity]...)
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

func extractUtilities(lower string) map[string]string {
	utilities := make(map[string]string, len(constants.Utilities))
	for _, u := range constants.Utilities {
		utilities[u] = constants.UtilityUnknown
	}

	for _, u := range constants.Utilities {
		if !strings.Contains(lower, u) {
			continue
		}
		switch {
		case strings.Contains(lower, u+" included") || strings.Contains(lower, u+" paid by owner"):
			utilities[u] = constants.UtilityOwner
		case strings.Contains(lower, u+" separate") || strings.Contains(lower, "tenant pays "+u):
			utilities[u] = constants.UtilityTenant
		default:
			// Mentioned but unclear: assume tenant-paid.
			utilities[u] = constants.UtilityTenant
		}
	}
	return utilities
}

func extractPhotos(page string) []string {
	idx := strings.Index(page, `data-section="photos"`)
	if idx < 0 {
		return []string{}
	}
	gallery := page[idx:]

	seen := map[string]bool{}
	photos := []string{}
	for _, tag := range imgRe.FindAllString(gallery, -1) {
		m := imgSrcRe.FindStringSubmatch(tag)
		if m == nil {
			continue
		}
		u := m[1]
		if strings.Contains(u, "no-photo") {
			continue
		}
		if strings.HasPrefix(u, "/") {
			u = "https://www.affordablehousing.com" + u
		}
		if !seen[u] {
			seen[u] = true
			photos = append(photos, u)
		}
	}
	return photos
}
