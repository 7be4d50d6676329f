// internal/dtos/scrape_dtos.go
package dtos

// ScrapedListing is the enrichment response for one listing URL. Nil
// pointers mean the page did not expose that attribute; the subsidy,
// amenity and utility mappings always carry their complete key sets.
type ScrapedListing struct {
	URL          string                     `json:"url"`
	Availability *bool                      `json:"availability"`
	SquareFeet   *int                       `json:"square_feet"`
	Bedrooms     *int                       `json:"bedrooms"`
	Bathrooms    *float64                   `json:"bathrooms"`
	Rent         *int                       `json:"rent"`
	Subsidy      map[string]bool            `json:"subsidy"`
	Amenities    map[string]map[string]bool `json:"amenities"`
	Utilities    map[string]string          `json:"utilities"`
	Photos       []string                   `json:"photos"`
}
