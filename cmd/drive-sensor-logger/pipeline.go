package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/drive-sensor-logger/internal/api/http"
	"github.com/i474232898/drive-sensor-logger/internal/common"
	"github.com/i474232898/drive-sensor-logger/internal/config"
	"github.com/i474232898/drive-sensor-logger/internal/csvlog"
	"github.com/i474232898/drive-sensor-logger/internal/ingest"
	"github.com/i474232898/drive-sensor-logger/internal/road"
	roadproviders "github.com/i474232898/drive-sensor-logger/internal/road/providers"
	"github.com/i474232898/drive-sensor-logger/internal/scheduler"
	"github.com/i474232898/drive-sensor-logger/internal/share"
	"github.com/i474232898/drive-sensor-logger/internal/store"
	"github.com/i474232898/drive-sensor-logger/internal/telemetry"
	"github.com/i474232898/drive-sensor-logger/internal/weather"
	weatherproviders "github.com/i474232898/drive-sensor-logger/internal/weather/providers"
)

// pipeline is every long-running component of one logging session.
type pipeline struct {
	cfg     *config.AppConfig
	monitor *telemetry.Monitor
	rows    *csvlog.Logger
	sharer  *share.Sharer
	sched   *scheduler.Scheduler
	app     *fiber.App
}

// outboundConfigs returns the HTTP settings for the weather and road lookups.
// Both share one client; only road lookups send NOMINATIM_USER_AGENT.
func outboundConfigs(cfg *config.AppConfig) (weatherHTTP, roadHTTP common.HTTPClientConfig) {
	weatherHTTP = common.HTTPClientConfig{
		Client: &http.Client{Timeout: cfg.HTTPTimeout},
		Backoff: common.BackoffConfig{
			MaxRetries:      cfg.FetchMaxRetries,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
	}
	roadHTTP = weatherHTTP
	roadHTTP.UserAgent = cfg.NominatimUserAgent
	return weatherHTTP, roadHTTP
}

// newPipeline assembles one session. HTTP access lines go to accessLog.
func newPipeline(cfg *config.AppConfig, accessLog io.Writer) (*pipeline, error) {
	weatherHTTP, roadHTTP := outboundConfigs(cfg)

	weatherProvider, err := weatherproviders.New(weatherHTTP, weatherproviders.Options{
		Name:              cfg.WeatherProvider,
		BaseURL:           cfg.WeatherBaseURL,
		OpenWeatherAPIKey: cfg.OpenWeatherAPIKey,
		WeatherAPIKey:     cfg.WeatherAPIKey,
	})
	if err != nil {
		return nil, err
	}

	roadProvider, err := roadproviders.New(roadHTTP, roadproviders.Options{
		Name:           cfg.RoadProvider,
		BaseURL:        cfg.RoadBaseURL,
		GeocoderAPIKey: cfg.GeocoderAPIKey,
	})
	if err != nil {
		return nil, err
	}

	rows := csvlog.New(cfg.LogDir)
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	monitor := telemetry.NewMonitor(telemetry.Config{
		Weather:      weather.NewService(weatherProvider),
		Roads:        road.NewService(roadProvider),
		Rows:         rows,
		History:      memStore,
		Sensors:      cfg.Sensors,
		FetchTimeout: cfg.HTTPTimeout,
	})

	sharer := share.New(rows.Path(), share.SystemOpener{})

	var sched *scheduler.Scheduler
	if cfg.Simulate {
		seed := time.Now().UnixNano()
		sched = scheduler.New(scheduler.Options{
			Sensors:          cfg.Sensors,
			SensorSource:     ingest.NewSimulatedIMU(seed),
			SensorInterval:   cfg.SensorInterval,
			LocationSource:   ingest.NewSimulatedDrive(nil, cfg.SimulateSpeed, cfg.LocationInterval, seed),
			LocationInterval: cfg.LocationInterval,
			Permission:       cfg.LocationPermission,
		}, monitor)
	}

	app := newHTTPApp(accessLog)
	httpapi.RegisterRoutes(app, httpapi.Dependencies{
		Monitor:    monitor,
		Store:      memStore,
		Sharer:     sharer,
		Permission: cfg.LocationPermission,
	})

	return &pipeline{
		cfg:     cfg,
		monitor: monitor,
		rows:    rows,
		sharer:  sharer,
		sched:   sched,
		app:     app,
	}, nil
}

func newHTTPApp(accessLog io.Writer) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "drive-sensor-logger",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New(logger.Config{Output: accessLog}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "drive-sensor-logger",
		})
	})

	return app
}

// start launches the monitor, the simulated sources and the HTTP server.
// The returned channel yields the monitor's exit error.
func (p *pipeline) start(ctx context.Context) (<-chan error, error) {
	monitorErr := make(chan error, 1)
	go func() {
		monitorErr <- p.monitor.Run(ctx)
	}()

	if p.sched != nil {
		if err := p.sched.Start(ctx); err != nil {
			return nil, err
		}
	}

	go func() {
		if err := p.app.Listen(":" + p.cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	log.Printf("INFO: logging to %s (simulate=%v, location permission=%s)",
		p.rows.Path(), p.cfg.Simulate, p.cfg.LocationPermission)
	return monitorErr, nil
}

// stop shuts the scheduler and HTTP server down.
func (p *pipeline) stop() {
	if p.sched != nil {
		p.sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	log.Printf("INFO: %d rows appended to %s", p.rows.Rows(), p.rows.Path())
}
