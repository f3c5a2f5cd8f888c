package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/drive-sensor-logger/internal/config"
	"github.com/i474232898/drive-sensor-logger/internal/ingest"
	"github.com/i474232898/drive-sensor-logger/internal/telemetry"
)

func testConfig(t *testing.T) *config.AppConfig {
	return &config.AppConfig{
		Port:               "0",
		LogDir:             t.TempDir(),
		HTTPTimeout:        time.Second,
		WeatherProvider:    "wttr",
		RoadProvider:       "nominatim",
		Sensors:            []telemetry.SensorKind{telemetry.Accelerometer, telemetry.Gyroscope},
		SensorInterval:     60 * time.Millisecond,
		LocationInterval:   2 * time.Second,
		LocationPermission: ingest.PermissionGranted,
		StoreMaxHistory:    10,
	}
}

func TestHealthAndErrorHandler(t *testing.T) {
	app := newHTTPApp(io.Discard)
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)

	var body struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Error)
	assert.Equal(t, "short and stout", body.Message)
}

func TestNewPipeline(t *testing.T) {
	cfg := testConfig(t)

	p, err := newPipeline(cfg, io.Discard)
	require.NoError(t, err)
	assert.Nil(t, p.sched, "no scheduler unless simulating")
	assert.Equal(t, cfg.LogPath(), p.sharer.Path())

	cfg.Simulate = true
	p, err = newPipeline(cfg, io.Discard)
	require.NoError(t, err)
	assert.NotNil(t, p.sched)
}

func TestNewPipelineRejectsUnknownProviders(t *testing.T) {
	cfg := testConfig(t)
	cfg.WeatherProvider = "almanac"
	_, err := newPipeline(cfg, io.Discard)
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.RoadProvider = "google"
	_, err = newPipeline(cfg, io.Discard)
	assert.Error(t, err, "google without a key")
}

func TestAccessLogGoesToWriter(t *testing.T) {
	var buf bytes.Buffer
	app := newHTTPApp(&buf)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Contains(t, buf.String(), "/health")
}

func TestDashboardAccessLogLandsInLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.log")
	logFile, err := tea.LogToFile(path, "dash")
	require.NoError(t, err)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		logFile.Close()
	})

	app := newHTTPApp(logFile)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "/health")
}

func TestOutboundConfigsScopeUserAgent(t *testing.T) {
	cfg := testConfig(t)
	cfg.NominatimUserAgent = "drive-sensor-logger/test"

	weatherHTTP, roadHTTP := outboundConfigs(cfg)
	assert.Empty(t, weatherHTTP.UserAgent)
	assert.Equal(t, "drive-sensor-logger/test", roadHTTP.UserAgent)
	assert.Same(t, weatherHTTP.Client, roadHTTP.Client)
	assert.Equal(t, time.Second, roadHTTP.Client.Timeout)
}
