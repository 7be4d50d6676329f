// internal/clients/geocoder.go
package clients

import (
	"context"

	"github.com/umahmood/haversine"
	"googlemaps.github.io/maps"

	"github.com/spinonoir/housing-map-project/internal/constants"
	"github.com/spinonoir/housing-map-project/internal/models"
	"github.com/spinonoir/housing-map-project/internal/utils"
)

/*
Geocoder resolves a full address string to coordinates.

Contract: (nil, nil) means the provider answered but found nothing; a
non-nil error means a transient condition (timeout, unavailable) that the
caller may retry. Retry/backoff policy is owned by the pipeline, not here.
*/
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*models.GeocodeResult, error)
}

type googleGeocoder struct {
	client *maps.Client
}

func NewGoogleGeocoder(apiKey string) (Geocoder, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &googleGeocoder{client: c}, nil
}

func (g *googleGeocoder) Geocode(ctx context.Context, address string) (*models.GeocodeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.GeocodeTimeout)
	defer cancel()

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	loc := results[0].Geometry.Location

	// Ambiguous addresses sometimes resolve to a different state entirely.
	// Anything outside the metro radius is treated as a miss so it lands
	// in the failure log instead of on the wrong side of the map.
	mi, _ := haversine.Distance(
		haversine.Coord{Lat: loc.Lat, Lon: loc.Lng},
		haversine.Coord{Lat: constants.MetroCenterLat, Lon: constants.MetroCenterLng},
	)
	if mi > constants.MaxGeocodeRadiusMiles {
		utils.Logger.Warnf("Geocode hit for %q is %.0f mi outside the metro radius, discarding", address, mi)
		return nil, nil
	}

	return &models.GeocodeResult{
		Latitude:    loc.Lat,
		Longitude:   loc.Lng,
		DisplayName: results[0].FormattedAddress,
	}, nil
}
