// Package geo holds spherical-earth helpers used by distance resolution.
package geo

import (
	"math"

	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

// EarthRadiusKm is the mean Earth radius
const EarthRadiusKm = 6371.0

// GreatCircleKm returns the haversine distance in kilometres between a and b.
func GreatCircleKm(a, b entity.Coordinate) float64 {
	if a.Equal(b) {
		return 0
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// BoxAround returns a lat/lng box that contains every point within radiusKm of c.
// Longitude spread is clamped near the poles.
func BoxAround(c entity.Coordinate, radiusKm float64) (min, max entity.Coordinate) {
	dLat := radiusKm / EarthRadiusKm * 180 / math.Pi
	cosLat := math.Cos(c.Lat * math.Pi / 180)
	dLng := 180.0
	if cosLat > 1e-9 {
		dLng = math.Min(180, dLat/cosLat)
	}
	min = entity.Coordinate{Lat: math.Max(-90, c.Lat-dLat), Lng: math.Max(-180, c.Lng-dLng)}
	max = entity.Coordinate{Lat: math.Min(90, c.Lat+dLat), Lng: math.Min(180, c.Lng+dLng)}
	return min, max
}
