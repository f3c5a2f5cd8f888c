package ingest

import (
	"testing"
	"time"

	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/drive-sensor-logger/internal/telemetry"
)

func TestSimulatedDriveStaysOnRoute(t *testing.T) {
	const speed = 13.4
	interval := 2 * time.Second
	d := NewSimulatedDrive(nil, speed, interval, 1)

	prev := d.Next()
	for i := 0; i < 200; i++ {
		fix := d.Next()

		require.True(t, ValidPosition(fix.Latitude, fix.Longitude))
		assert.InDelta(t, 37.3274, fix.Latitude, 0.006)
		assert.InDelta(t, -122.0231, fix.Longitude, 0.011)
		assert.GreaterOrEqual(t, fix.Speed, float32(speed*0.9))
		assert.LessOrEqual(t, fix.Speed, float32(speed*1.1))

		step := s2.LatLngFromDegrees(prev.Latitude, prev.Longitude).
			Distance(s2.LatLngFromDegrees(fix.Latitude, fix.Longitude)).Radians() * EarthRadiusMeters
		assert.LessOrEqual(t, step, speed*1.1*interval.Seconds()+0.5)
		prev = fix
	}
}

func TestSimulatedDriveSinglePoint(t *testing.T) {
	d := NewSimulatedDrive([]Waypoint{{Lat: 51.5, Lon: -0.12}}, 10, time.Second, 7)
	fix := d.Next()
	assert.InDelta(t, 51.5, fix.Latitude, 1e-9)
	assert.InDelta(t, -0.12, fix.Longitude, 1e-9)
}

func TestValidPosition(t *testing.T) {
	assert.True(t, ValidPosition(37, -122))
	assert.True(t, ValidPosition(-90, 180))
	assert.False(t, ValidPosition(91, 0))
	assert.False(t, ValidPosition(0, 181))
}

func TestSimulatedIMU(t *testing.T) {
	imu := NewSimulatedIMU(3)
	for i := 0; i < 50; i++ {
		a := imu.Sample(telemetry.Accelerometer)
		assert.InDelta(t, 9.81, a.Z, 0.05)
		g := imu.Sample(telemetry.Gyroscope)
		assert.InDelta(t, 0, g.Z, 0.3)
	}
	assert.Equal(t, telemetry.Vector{}, imu.Sample("magnetometer"))
}

func TestParsePermission(t *testing.T) {
	p, err := ParsePermission(" Granted ")
	require.NoError(t, err)
	assert.True(t, p.Granted())

	p, err = ParsePermission("denied")
	require.NoError(t, err)
	assert.False(t, p.Granted())

	_, err = ParsePermission("maybe")
	assert.Error(t, err)
}
