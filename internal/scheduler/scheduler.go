package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/drive-sensor-logger/internal/ingest"
	"github.com/i474232898/drive-sensor-logger/internal/telemetry"
)

// Sink receives the samples produced by scheduled sources.
type Sink interface {
	UpdateSensor(ctx context.Context, kind telemetry.SensorKind, v telemetry.Vector) error
	UpdateLocation(ctx context.Context, sample telemetry.LocationSample) error
}

// SensorSource produces one reading per sensor kind on demand.
type SensorSource interface {
	Sample(kind telemetry.SensorKind) telemetry.Vector
}

// LocationSource produces one fix on demand.
type LocationSource interface {
	Next() telemetry.LocationSample
}

// Options configures which sources are polled and how often.
type Options struct {
	Sensors          []telemetry.SensorKind
	SensorSource     SensorSource
	SensorInterval   time.Duration
	LocationSource   LocationSource
	LocationInterval time.Duration
	Permission       ingest.Permission
}

// Scheduler periodically polls the configured sources and feeds the sink.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sink      Sink
	opts      Options
}

// New creates a new Scheduler.
func New(opts Options, sink Sink) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		sink:      sink,
		opts:      opts,
	}
}

// Start schedules the sampling jobs and starts the underlying scheduler.
// Location polling only starts when permission was granted.
func (s *Scheduler) Start(ctx context.Context) error {
	jobs := 0

	if s.opts.SensorSource != nil && len(s.opts.Sensors) > 0 {
		interval := s.opts.SensorInterval
		if interval <= 0 {
			interval = 60 * time.Millisecond
		}
		_, err := s.scheduler.Every(interval).Do(func() {
			for _, kind := range s.opts.Sensors {
				s.deliver(ctx, "sensor", s.sink.UpdateSensor(ctx, kind, s.opts.SensorSource.Sample(kind)))
			}
		})
		if err != nil {
			return err
		}
		jobs++
	}

	if s.opts.LocationSource != nil && s.opts.Permission.Granted() {
		interval := s.opts.LocationInterval
		if interval <= 0 {
			interval = 2 * time.Second
		}
		_, err := s.scheduler.Every(interval).Do(func() {
			s.deliver(ctx, "location", s.sink.UpdateLocation(ctx, s.opts.LocationSource.Next()))
		})
		if err != nil {
			return err
		}
		jobs++
	}

	if jobs == 0 {
		log.Println("scheduler: no sources configured; nothing to schedule")
		return nil
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) deliver(ctx context.Context, what string, err error) {
	if err == nil || ctx.Err() != nil || errors.Is(err, telemetry.ErrStopped) {
		return
	}
	log.Printf("scheduler: %s delivery failed: %v", what, err)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
