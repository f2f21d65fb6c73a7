package geo

import (
	"fmt"
	"hash/fnv"
	"math"
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

const earthRadiusKm = 6371

// Geocode maps a postcode to a deterministic pseudo-coordinate. It is a
// placeholder until a real geocoder is wired in: the only guarantees are
// determinism (same postcode+salt always yields the same point) and that the
// result stays within valid ranges away from the poles. The salt keeps
// distinct subjects (origin vs. individual teachers) from colliding on the
// same postcode.
func Geocode(postcode, salt string) Point {
	lat := hash32(fmt.Sprintf("%s|%s|lat", postcode, salt))
	lng := hash32(fmt.Sprintf("%s|%s|lng", postcode, salt))
	return Point{
		Latitude:  float64(lat%120000)/1000 - 60,
		Longitude: float64(lng%360000)/1000 - 180,
	}
}

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(a, b Point) float64 {
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)

	s := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(s))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func hash32(input string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(input))
	return h.Sum32()
}
