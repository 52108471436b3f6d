package api

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"casabook/server/internal/models"
)

// Geocoder resolves an address to coordinates. The production
// implementation rate-limits against Nominatim and caches on disk.
type Geocoder interface {
	GeocodeAddress(address, city, country string) (float64, float64, error)
}

// maxGeocodesPerSearch bounds the live lookups one radius search may
// trigger. Each uncached lookup costs at least a second against the
// rate-limited geocoding API, so unlocated listings beyond the cap are
// dropped from this result instead of stalling the request.
const maxGeocodesPerSearch = 3

// filterByRadius keeps the properties within radiusKM of the search
// center. Properties without stored coordinates are geocoded from their
// address when a geocoder is configured, otherwise dropped from a
// radius-filtered result.
func (h *Handler) filterByRadius(properties []models.PropertyEntry, lat, lng, radiusKM float64) []models.PropertyEntry {
	center := orb.Point{lng, lat}
	radiusMeters := radiusKM * 1000
	budget := maxGeocodesPerSearch

	matched := make([]models.PropertyEntry, 0, len(properties))
	for _, property := range properties {
		plat, plng, ok := h.coordinates(&property.Attributes, &budget)
		if !ok {
			continue
		}
		if geo.Distance(center, orb.Point{plng, plat}) <= radiusMeters {
			matched = append(matched, property)
		}
	}
	return matched
}

func (h *Handler) coordinates(attrs *models.PropertyAttributes, budget *int) (float64, float64, bool) {
	if attrs.Latitude != nil && attrs.Longitude != nil {
		return *attrs.Latitude, *attrs.Longitude, true
	}
	if h.geocoder == nil || attrs.Address == "" || *budget <= 0 {
		return 0, 0, false
	}
	*budget--
	lat, lng, err := h.geocoder.GeocodeAddress(attrs.Address, attrs.City, attrs.Country)
	if err != nil {
		h.logger.WithError(err).WithField("address", attrs.Address).Warn("Failed to geocode property")
		return 0, 0, false
	}
	return lat, lng, true
}
