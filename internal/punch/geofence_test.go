package punch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeofenceDistance(t *testing.T) {
	fence := Geofence{Latitude: 12.9716, Longitude: 77.5946, RadiusMeters: 200}

	// Same point.
	assert.InDelta(t, 0, fence.DistanceMeters(12.9716, 77.5946), 0.01)

	// One degree of latitude is roughly 111 km.
	assert.InDelta(t, 111195, fence.DistanceMeters(13.9716, 77.5946), 200)
}

func TestGeofenceAllows(t *testing.T) {
	fence := Geofence{Latitude: 12.9716, Longitude: 77.5946, RadiusMeters: 200}

	assert.True(t, fence.Allows(12.9716, 77.5946))
	// ~110m north still inside the 200m radius.
	assert.True(t, fence.Allows(12.9726, 77.5946))
	// ~1.1km north is well outside.
	assert.False(t, fence.Allows(12.9816, 77.5946))
}

func TestGeofenceFromEnvDefaults(t *testing.T) {
	t.Setenv("OFFICE_LAT", "")
	t.Setenv("OFFICE_LNG", "not-a-number")
	t.Setenv("GEOFENCE_RADIUS_M", "350")

	fence := GeofenceFromEnv()
	assert.Equal(t, 12.9716, fence.Latitude)
	assert.Equal(t, 77.5946, fence.Longitude)
	assert.Equal(t, 350.0, fence.RadiusMeters)
}
