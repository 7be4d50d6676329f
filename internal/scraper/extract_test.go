package scraper

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spinonoir/housing-map-project/internal/constants"
)

const listingPage = `
<html>
<head><title>2 bed apartment</title>
<script>var tracking = "ignore 99 bed 99 bath $9,999";</script>
</head>
<body>
<h1>Charming Apartment &amp; More</h1>
<span id="spanAvailable">Available Now</span>
<p>2 bed, 1.5 bath, 850 sq ft. Rent: $1,850 per month.</p>
<p>Section 8 vouchers welcome.</p>
<p>Community pool and fitness room. Dishwasher in kitchen. Hardwood floors throughout.</p>
<p>Water included. Trash included. Tenant pays gas.</p>
<div data-section="photos">
  <img src="/images/listing/front.jpg">
  <img data-src="https://cdn.listings.test/kitchen.jpg">
  <img src="/images/listing/front.jpg">
  <img src="/images/no-photo-placeholder.png">
</div>
</body>
</html>`

func TestExtractFullListing(t *testing.T) {
	listing := Extract("https://listings.test/1", listingPage)

	require.Equal(t, "https://listings.test/1", listing.URL)

	require.NotNil(t, listing.Availability)
	require.True(t, *listing.Availability)

	require.NotNil(t, listing.SquareFeet)
	require.Equal(t, 850, *listing.SquareFeet)

	require.NotNil(t, listing.Bedrooms)
	require.Equal(t, 2, *listing.Bedrooms)

	require.NotNil(t, listing.Bathrooms)
	require.Equal(t, 1.5, *listing.Bathrooms)

	require.NotNil(t, listing.Rent)
	require.Equal(t, 1850, *listing.Rent)

	require.True(t, listing.Subsidy["bc"])
	require.False(t, listing.Subsidy["hacla"])

	require.True(t, listing.Amenities["community"]["pool"])
	require.True(t, listing.Amenities["community"]["fitness_center"], "synonym 'fitness room' must match")
	require.True(t, listing.Amenities["kitchen"]["dishwasher"])
	require.True(t, listing.Amenities["indoor"]["hardwood_floors"])
	require.False(t, listing.Amenities["community"]["sauna"])

	require.Equal(t, constants.UtilityOwner, listing.Utilities["water"])
	require.Equal(t, constants.UtilityOwner, listing.Utilities["trash"])
	require.Equal(t, constants.UtilityTenant, listing.Utilities["gas"])
	require.Equal(t, constants.UtilityUnknown, listing.Utilities["internet"])

	require.Equal(t, []string{
		"https://www.affordablehousing.com/images/listing/front.jpg",
		"https://cdn.listings.test/kitchen.jpg",
	}, listing.Photos)
}

func TestExtractStudioListing(t *testing.T) {
	page := `<html><body><p>Cozy studio, 1 bath, $975/month</p></body></html>`
	listing := Extract("https://listings.test/2", page)

	require.NotNil(t, listing.Bedrooms)
	require.Equal(t, 0, *listing.Bedrooms)
	require.NotNil(t, listing.Rent)
	require.Equal(t, 975, *listing.Rent)
	require.Nil(t, listing.Availability, "no availability marker on the page")
	require.Nil(t, listing.SquareFeet)
}

func TestExtractEmptyPage(t *testing.T) {
	listing := Extract("https://listings.test/3", "<html><body></body></html>")

	require.Nil(t, listing.Availability)
	require.Nil(t, listing.SquareFeet)
	require.Nil(t, listing.Bedrooms)
	require.Nil(t, listing.Bathrooms)
	require.Nil(t, listing.Rent)
	require.Empty(t, listing.Photos)

	// The closed vocabularies are always fully populated.
	for category, list := range constants.AmenityCategories {
		require.Len(t, listing.Amenities[category], len(list))
	}
	for _, u := range constants.Utilities {
		require.Equal(t, constants.UtilityUnknown, listing.Utilities[u])
	}
}

func TestExtractUnavailableSpan(t *testing.T) {
	page := `<html><body><span id="spanAvailable">Leased</span></body></html>`
	listing := Extract("https://listings.test/4", page)

	require.NotNil(t, listing.Availability)
	require.False(t, *listing.Availability)
}
