// internal/models/housing_unit.go
package models

// Document is the canonical record shape for a housing unit. Uploaded
// rows arrive with arbitrary extra columns which must survive the round
// trip through the store, so units are documents rather than a closed
// struct. All readers go through the typed accessors below; nothing else
// in the codebase does shape-dependent dispatch.
type Document map[string]any

// Well-known document fields.
const (
	FieldID            = "id"
	FieldAddress       = "property_address"
	FieldUnit          = "unit"
	FieldZipCode       = "zip_code"
	FieldLatitude      = "latitude"
	FieldLongitude     = "longitude"
	FieldDisplayName   = "display_name"
	FieldListingLink   = "listing_link"
	FieldStatus        = "status"
	FieldFavorite      = "favorite"
	FieldFirstSeenDate = "first_seen_date"
	FieldLastSeenDate  = "last_seen_date"
	FieldBatchID       = "batch_id"
	FieldParking       = "parking"
)

func (d Document) ID() string {
	return d.String(FieldID)
}

// String returns the field as a string, or "" when absent or not a string.
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Float returns a numeric field. JSON decoding hands back float64, the
// normalizer produces int/float64, so both are accepted.
func (d Document) Float(key string) (float64, bool) {
	switch v := d[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func (d Document) Bool(key string) bool {
	b, _ := d[key].(bool)
	return b
}

// HasCoordinates reports whether the unit has been geocoded. Latitude and
// longitude are written together, so checking latitude is sufficient, but
// both are required to guard against legacy half-written records.
func (d Document) HasCoordinates() bool {
	_, latOK := d.Float(FieldLatitude)
	_, lngOK := d.Float(FieldLongitude)
	return latOK && lngOK
}

// Clone returns a shallow copy. Nested maps are shared; callers that
// mutate nested state must copy those themselves.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Merge copies every field of src onto d, overwriting existing keys.
func (d Document) Merge(src Document) {
	for k, v := range src {
		d[k] = v
	}
}
