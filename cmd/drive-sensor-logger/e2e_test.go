package main

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/drive-sensor-logger/internal/common"
	"github.com/i474232898/drive-sensor-logger/internal/csvlog"
	"github.com/i474232898/drive-sensor-logger/internal/road"
	roadproviders "github.com/i474232898/drive-sensor-logger/internal/road/providers"
	"github.com/i474232898/drive-sensor-logger/internal/telemetry"
)

// TestLocationToCSVWithNominatim drives a location fix through the real
// road provider, the monitor and the CSV logger.
func TestLocationToCSVWithNominatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"address":{"road":"Main St"},"type":"residential"}`))
	}))
	defer srv.Close()

	rows := csvlog.New(t.TempDir())
	provider := roadproviders.NewNominatimProvider(common.HTTPClientConfig{Client: srv.Client()}, srv.URL)
	monitor := telemetry.NewMonitor(telemetry.Config{
		Roads:   road.NewService(provider),
		Rows:    rows,
		Sensors: []telemetry.SensorKind{telemetry.Accelerometer, telemetry.Gyroscope},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- monitor.Run(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	fix := telemetry.LocationSample{Latitude: 37.0, Longitude: -122.0, Speed: 4}

	// The first row is written before the lookup answers and carries the cached value.
	require.NoError(t, monitor.UpdateLocation(ctx, fix))
	require.Eventually(t, func() bool {
		d, err := monitor.Display(ctx)
		return err == nil && d.Road == "Road: Main St (residential)"
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, monitor.UpdateLocation(ctx, fix))
	_, err := monitor.Display(ctx)
	require.NoError(t, err)

	f, err := os.Open(rows.Path())
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, telemetry.LogHeader, records[0])

	const speedCol, roadCol = 9, 11
	assert.Equal(t, "8.95", records[1][speedCol])
	assert.Equal(t, "Unknown", records[1][roadCol])
	assert.Equal(t, "8.95", records[2][speedCol])
	assert.Equal(t, "Main St (residential)", records[2][roadCol])
}
