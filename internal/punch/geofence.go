package punch

import (
	"math"
	"os"
	"strconv"
)

const (
	defaultOfficeLat    = 12.9716
	defaultOfficeLng    = 77.5946
	defaultRadiusMeters = 200
)

// Geofence describes the office coordinate and the allowed punch radius.
type Geofence struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// GeofenceFromEnv reads OFFICE_LAT, OFFICE_LNG and GEOFENCE_RADIUS_M,
// falling back to the defaults when unset or malformed.
func GeofenceFromEnv() Geofence {
	return Geofence{
		Latitude:     envFloat("OFFICE_LAT", defaultOfficeLat),
		Longitude:    envFloat("OFFICE_LNG", defaultOfficeLng),
		RadiusMeters: envFloat("GEOFENCE_RADIUS_M", defaultRadiusMeters),
	}
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

// DistanceMeters returns the great-circle distance from the fence center
// to the given coordinate (haversine).
func (g Geofence) DistanceMeters(lat, lng float64) float64 {
	const earthRadiusM = 6371e3

	phi1 := g.Latitude * math.Pi / 180
	phi2 := lat * math.Pi / 180
	dPhi := (lat - g.Latitude) * math.Pi / 180
	dLambda := (lng - g.Longitude) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// Allows reports whether the coordinate falls inside the fence.
func (g Geofence) Allows(lat, lng float64) bool {
	return g.DistanceMeters(lat, lng) <= g.RadiusMeters
}
