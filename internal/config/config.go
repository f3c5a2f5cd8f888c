package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/drive-sensor-logger/internal/csvlog"
	"github.com/i474232898/drive-sensor-logger/internal/ingest"
	"github.com/i474232898/drive-sensor-logger/internal/telemetry"
)

type AppConfig struct {
	Port string

	// LogDir holds sensor_log.csv.
	LogDir string

	// Outbound lookups.
	HTTPTimeout     time.Duration
	FetchMaxRetries int

	WeatherProvider   string
	WeatherBaseURL    string
	OpenWeatherAPIKey string
	WeatherAPIKey     string

	RoadProvider       string
	RoadBaseURL        string
	GeocoderAPIKey     string
	NominatimUserAgent string

	// Sensors present on the device.
	Sensors            []telemetry.SensorKind
	SensorInterval     time.Duration
	LocationInterval   time.Duration
	LocationPermission ingest.Permission

	// Simulate drives the monitor from simulated sensors and a simulated route.
	Simulate      bool
	SimulateSpeed float32 // m/s

	// In-memory readings retention.
	StoreMaxHistory int           // max number of rows (0 = unlimited)
	StoreMaxAge     time.Duration // max age of rows (0 = unlimited)

	// DashboardLogFile receives log output while the terminal dashboard owns the screen.
	DashboardLogFile string
}

// LogPath is the full path of the CSV log.
func (c *AppConfig) LogPath() string {
	return filepath.Join(c.LogDir, csvlog.FileName)
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogDir = getenvDefault("LOG_DIR", "./data")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	cfg.FetchMaxRetries = getenvInt("FETCH_MAX_RETRIES", 0)
	if cfg.FetchMaxRetries < 0 {
		return nil, fmt.Errorf("invalid FETCH_MAX_RETRIES: must not be negative")
	}

	cfg.WeatherProvider = getenvDefault("WEATHER_PROVIDER", "wttr")
	cfg.WeatherBaseURL = os.Getenv("WEATHER_BASE_URL")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")

	cfg.RoadProvider = getenvDefault("ROAD_PROVIDER", "nominatim")
	cfg.RoadBaseURL = os.Getenv("ROAD_BASE_URL")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.NominatimUserAgent = getenvDefault("NOMINATIM_USER_AGENT", "drive-sensor-logger/1.0")

	if cfg.Sensors, err = parseSensors(getenvDefault("SENSORS", "accelerometer,gyroscope")); err != nil {
		return nil, err
	}
	if cfg.SensorInterval, err = getenvDuration("SENSOR_INTERVAL", "60ms"); err != nil {
		return nil, err
	}
	if cfg.LocationInterval, err = getenvDuration("LOCATION_INTERVAL", "2s"); err != nil {
		return nil, err
	}
	if cfg.LocationPermission, err = ingest.ParsePermission(getenvDefault("LOCATION_PERMISSION", "granted")); err != nil {
		return nil, err
	}

	cfg.Simulate = getenvBool("SIMULATE", false)
	speed, err := strconv.ParseFloat(getenvDefault("SIMULATE_SPEED", "13.4"), 32)
	if err != nil || speed < 0 {
		return nil, fmt.Errorf("invalid SIMULATE_SPEED: %q", os.Getenv("SIMULATE_SPEED"))
	}
	cfg.SimulateSpeed = float32(speed)

	// Store retention.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 1800) // roughly one hour at 2-second fixes
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "1h"); err != nil {
		return nil, err
	}

	cfg.DashboardLogFile = getenvDefault("DASHBOARD_LOG_FILE", filepath.Join(cfg.LogDir, "dashboard.log"))

	return cfg, nil
}

func parseSensors(s string) ([]telemetry.SensorKind, error) {
	var kinds []telemetry.SensorKind
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		kind, err := telemetry.ParseSensorKind(name)
		if err != nil {
			return nil, fmt.Errorf("invalid SENSORS: %w", err)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
