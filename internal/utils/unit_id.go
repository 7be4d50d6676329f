// internal/utils/unit_id.go
package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spinonoir/housing-map-project/internal/constants"
)

var (
	idStripRe    = regexp.MustCompile(`[^\w\-]`)
	idCollapseRe = regexp.MustCompile(`--+`)
)

// DeriveUnitID builds a stable, store-safe document id from the unit's
// identity fields. The same (address, unit, zip) always derives the same
// id, case-insensitively on address and unit, which is what makes upsert
// idempotent across repeated uploads.
func DeriveUnitID(address, unitNumber, zipCode string) string {
	raw := strings.ToLower(address + "_" + unitNumber + "_" + zipCode)
	raw = strings.ReplaceAll(raw, " ", "-")

	sanitized := idStripRe.ReplaceAllString(raw, "")
	sanitized = idCollapseRe.ReplaceAllString(sanitized, "-")
	sanitized = strings.Trim(sanitized, "-")

	if len(sanitized) < 3 {
		// All-blank or punctuation-only identity. The timestamp alone is
		// not unique under concurrent same-second calls, so a random
		// suffix is appended.
		sanitized = "unit_" + time.Now().Format("20060102150405") + "_" + uuid.NewString()[:8]
	}
	if len(sanitized) > constants.MaxUnitIDLength {
		sanitized = sanitized[:constants.MaxUnitIDLength]
	}
	return sanitized
}
