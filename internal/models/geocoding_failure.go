// internal/models/geocoding_failure.go
package models

import "time"

// GeocodingFailure is an append-only record of a geocode attempt that
// exhausted its retries. It carries the full unit snapshot so the address
// can be fixed by hand without another store lookup. Deleted only by
// explicit user resolution.
type GeocodingFailure struct {
	ID        string    `json:"failure_id"`
	UnitData  Document  `json:"unit_data"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// GeocodeResult is a successful address resolution.
type GeocodeResult struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
}
