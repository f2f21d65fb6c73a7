package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeocodeDeterminism(t *testing.T) {
	a := Geocode("2000", "origin")
	b := Geocode("2000", "origin")
	assert.Equal(t, a, b)
}

func TestGeocodeSaltSeparation(t *testing.T) {
	origin := Geocode("2000", "origin")
	teacher := Geocode("2000", "teacher-1")
	assert.NotEqual(t, origin, teacher)
}

func TestGeocodeRanges(t *testing.T) {
	for _, postcode := range []string{"2000", "3000", "SW1A 1AA", "90210", ""} {
		p := Geocode(postcode, "origin")
		assert.GreaterOrEqual(t, p.Latitude, -60.0)
		assert.Less(t, p.Latitude, 60.0)
		assert.GreaterOrEqual(t, p.Longitude, -180.0)
		assert.Less(t, p.Longitude, 180.0)
	}
}

func TestHaversineKm(t *testing.T) {
	sydney := Point{Latitude: -33.8688, Longitude: 151.2093}
	melbourne := Point{Latitude: -37.8136, Longitude: 144.9631}

	d := HaversineKm(sydney, melbourne)
	assert.InDelta(t, 714, d, 10)

	assert.Zero(t, HaversineKm(sydney, sydney))
	assert.InDelta(t, HaversineKm(sydney, melbourne), HaversineKm(melbourne, sydney), 1e-9)
}
