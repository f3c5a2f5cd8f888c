package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/drive-sensor-logger/internal/ingest"
	"github.com/i474232898/drive-sensor-logger/internal/telemetry"
)

var configKeys = []string{
	"PORT", "LOG_DIR", "HTTP_TIMEOUT", "FETCH_MAX_RETRIES",
	"WEATHER_PROVIDER", "WEATHER_BASE_URL", "OPENWEATHER_API_KEY", "WEATHERAPI_API_KEY",
	"ROAD_PROVIDER", "ROAD_BASE_URL", "GEOCODER_API_KEY", "NOMINATIM_USER_AGENT",
	"SENSORS", "SENSOR_INTERVAL", "LOCATION_INTERVAL", "LOCATION_PERMISSION",
	"SIMULATE", "SIMULATE_SPEED", "STORE_MAX_HISTORY", "STORE_MAX_AGE", "DASHBOARD_LOG_FILE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./data", cfg.LogDir)
	assert.Equal(t, filepath.Join("data", "sensor_log.csv"), cfg.LogPath())
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Zero(t, cfg.FetchMaxRetries)
	assert.Equal(t, "wttr", cfg.WeatherProvider)
	assert.Equal(t, "nominatim", cfg.RoadProvider)
	assert.Equal(t, []telemetry.SensorKind{telemetry.Accelerometer, telemetry.Gyroscope}, cfg.Sensors)
	assert.Equal(t, 60*time.Millisecond, cfg.SensorInterval)
	assert.Equal(t, 2*time.Second, cfg.LocationInterval)
	assert.Equal(t, ingest.PermissionGranted, cfg.LocationPermission)
	assert.False(t, cfg.Simulate)
	assert.InDelta(t, 13.4, cfg.SimulateSpeed, 1e-4)
	assert.Equal(t, 1800, cfg.StoreMaxHistory)
	assert.Equal(t, time.Hour, cfg.StoreMaxAge)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_DIR", "/var/lib/dsl")
	t.Setenv("SENSORS", "gyroscope")
	t.Setenv("LOCATION_PERMISSION", "denied")
	t.Setenv("SIMULATE", "true")
	t.Setenv("WEATHER_PROVIDER", "openmeteo")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/dsl/sensor_log.csv", cfg.LogPath())
	assert.Equal(t, "/var/lib/dsl/dashboard.log", cfg.DashboardLogFile)
	assert.Equal(t, []telemetry.SensorKind{telemetry.Gyroscope}, cfg.Sensors)
	assert.False(t, cfg.LocationPermission.Granted())
	assert.True(t, cfg.Simulate)
	assert.Equal(t, "openmeteo", cfg.WeatherProvider)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"SENSORS":             "accelerometer,barometer",
		"LOCATION_PERMISSION": "sometimes",
		"HTTP_TIMEOUT":        "soon",
		"FETCH_MAX_RETRIES":   "-1",
		"SIMULATE_SPEED":      "-3",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
