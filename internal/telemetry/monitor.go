package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// ErrStopped is returned by Monitor methods once Run has returned.
var ErrStopped = errors.New("monitor stopped")

// WeatherSource answers the weather lookup made for each location update.
type WeatherSource interface {
	Summary(ctx context.Context, lat, lon float64) (string, error)
}

// RoadSource answers the reverse geocoding lookup made for each location update.
type RoadSource interface {
	Describe(ctx context.Context, lat, lon float64) (string, error)
}

// RowWriter persists log rows.
type RowWriter interface {
	Append(row LogRow) error
}

// RowRecorder receives every row after it was persisted.
type RowRecorder interface {
	Record(row LogRow)
}

// Config wires a Monitor.
type Config struct {
	Weather WeatherSource
	Roads   RoadSource
	Rows    RowWriter
	History RowRecorder // optional

	// Sensors lists the sensor kinds present on this device; samples of
	// any other kind are dropped.
	Sensors []SensorKind

	// FetchTimeout bounds each remote lookup; zero leaves it to the HTTP client.
	FetchTimeout time.Duration

	Clock func() time.Time
}

// Monitor owns the latest sensor, location and environment values.
// All state is mutated by the Run goroutine only; producers talk to it
// through events.
type Monitor struct {
	weather      WeatherSource
	roads        RoadSource
	rows         RowWriter
	history      RowRecorder
	sensors      map[SensorKind]bool
	fetchTimeout time.Duration
	now          func() time.Time

	events  chan event
	stopped chan struct{}
	wg      sync.WaitGroup

	subsMu sync.Mutex
	subs   map[chan Display]struct{}

	st state
}

type state struct {
	accel, gyro  *Vector
	speedMPH     float32
	clock, day   string
	weather      string
	road         string
	cycle        uint64
	weatherCycle uint64
	roadCycle    uint64
	display      Display
}

type event interface{}

type sensorEvent struct {
	kind SensorKind
	v    Vector
}

type locationEvent struct {
	sample LocationSample
}

type lookupKind int

const (
	lookupWeather lookupKind = iota
	lookupRoad
)

type lookupResult struct {
	kind  lookupKind
	cycle uint64
	text  string
	err   error
}

type displayRequest struct {
	reply chan Display
}

// NewMonitor creates a Monitor. Call Run to start processing.
func NewMonitor(cfg Config) *Monitor {
	sensors := make(map[SensorKind]bool, len(cfg.Sensors))
	for _, k := range cfg.Sensors {
		sensors[k] = true
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Monitor{
		weather:      cfg.Weather,
		roads:        cfg.Roads,
		rows:         cfg.Rows,
		history:      cfg.History,
		sensors:      sensors,
		fetchTimeout: cfg.FetchTimeout,
		now:          clock,
		events:       make(chan event, 64),
		stopped:      make(chan struct{}),
		subs:         make(map[chan Display]struct{}),
		st: state{
			weather: UnknownText,
			road:    UnknownText,
			clock:   "--:--",
			day:     "---",
			display: InitialDisplay(),
		},
	}
}

// Registered reports whether samples of kind are accepted.
func (m *Monitor) Registered(kind SensorKind) bool {
	return m.sensors[kind]
}

// UpdateSensor delivers a sensor sample. Samples of unregistered kinds are dropped.
func (m *Monitor) UpdateSensor(ctx context.Context, kind SensorKind, v Vector) error {
	if !m.sensors[kind] {
		return nil
	}
	return m.send(ctx, sensorEvent{kind: kind, v: v})
}

// UpdateLocation delivers a location fix.
func (m *Monitor) UpdateLocation(ctx context.Context, sample LocationSample) error {
	return m.send(ctx, locationEvent{sample: sample})
}

// Display returns the current display strings.
func (m *Monitor) Display(ctx context.Context) (Display, error) {
	req := displayRequest{reply: make(chan Display, 1)}
	if err := m.send(ctx, req); err != nil {
		return Display{}, err
	}
	select {
	case d := <-req.reply:
		return d, nil
	case <-ctx.Done():
		return Display{}, ctx.Err()
	case <-m.stopped:
		return Display{}, ErrStopped
	}
}

// Subscribe returns a channel that always holds the most recent display
// after a change. Call the returned func to unsubscribe.
func (m *Monitor) Subscribe() (<-chan Display, func()) {
	ch := make(chan Display, 1)
	m.subsMu.Lock()
	m.subs[ch] = struct{}{}
	m.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.subsMu.Lock()
			delete(m.subs, ch)
			m.subsMu.Unlock()
		})
	}
}

func (m *Monitor) send(ctx context.Context, ev event) error {
	select {
	case <-m.stopped:
		return ErrStopped
	default:
	}
	select {
	case m.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-m.stopped:
		return ErrStopped
	}
}

// Run processes events until ctx is cancelled or a log row cannot be written.
func (m *Monitor) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		m.wg.Wait()
		close(m.stopped)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-m.events:
			if err := m.handle(ctx, ev); err != nil {
				return err
			}
		}
	}
}

func (m *Monitor) handle(ctx context.Context, ev event) error {
	switch ev := ev.(type) {
	case sensorEvent:
		v := ev.v
		switch ev.kind {
		case Accelerometer:
			m.st.accel = &v
			m.st.display.Acceleration = FormatVector("Acceleration", v)
		case Gyroscope:
			m.st.gyro = &v
			m.st.display.Gyroscope = FormatVector("Cornering", v)
		}
		m.publish()

	case locationEvent:
		if err := m.observeLocation(ctx, ev.sample); err != nil {
			return err
		}
		m.publish()

	case lookupResult:
		if m.applyLookup(ev) {
			m.publish()
		}

	case displayRequest:
		ev.reply <- m.st.display
	}
	return nil
}

func (m *Monitor) observeLocation(ctx context.Context, s LocationSample) error {
	now := m.now()

	m.st.speedMPH = SpeedMPH(s.Speed)
	m.st.clock = now.Format("15:04")
	m.st.day = now.Format("Monday")
	m.st.display.Speed = fmt.Sprintf("Speed: %.2f mph", m.st.speedMPH)
	m.st.display.Time = "Time: " + m.st.clock
	m.st.display.Day = "Day: " + m.st.day

	m.st.cycle++
	m.lookup(ctx, m.st.cycle, s)

	// Lookups for this cycle are still in flight; the row carries the
	// values cached from earlier cycles.
	row := LogRow{
		Timestamp: now,
		Day:       m.st.day,
		Time:      m.st.clock,
		SpeedMPH:  m.st.speedMPH,
		Weather:   m.st.weather,
		Road:      m.st.road,
	}
	if m.st.accel != nil {
		row.Accel = *m.st.accel
	}
	if m.st.gyro != nil {
		row.Gyro = *m.st.gyro
	}

	if err := m.rows.Append(row); err != nil {
		return fmt.Errorf("append log row: %w", err)
	}
	if m.history != nil {
		m.history.Record(row)
	}
	return nil
}

// lookup starts the weather and road fetches for one location cycle.
func (m *Monitor) lookup(ctx context.Context, cycle uint64, s LocationSample) {
	if m.weather != nil {
		m.spawn(ctx, lookupWeather, cycle, func(ctx context.Context) (string, error) {
			return m.weather.Summary(ctx, s.Latitude, s.Longitude)
		})
	}
	if m.roads != nil {
		m.spawn(ctx, lookupRoad, cycle, func(ctx context.Context) (string, error) {
			return m.roads.Describe(ctx, s.Latitude, s.Longitude)
		})
	}
}

func (m *Monitor) spawn(ctx context.Context, kind lookupKind, cycle uint64, fetch func(context.Context) (string, error)) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		fctx := ctx
		if m.fetchTimeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(ctx, m.fetchTimeout)
			defer cancel()
		}

		text, err := fetch(fctx)
		select {
		case m.events <- lookupResult{kind: kind, cycle: cycle, text: text, err: err}:
		case <-ctx.Done():
		}
	}()
}

// applyLookup stores a lookup result unless a newer cycle already answered.
func (m *Monitor) applyLookup(r lookupResult) bool {
	switch r.kind {
	case lookupWeather:
		if r.cycle <= m.st.weatherCycle {
			return false
		}
		m.st.weatherCycle = r.cycle
		if r.err != nil {
			log.Printf("INFO: weather lookup failed: %v", r.err)
			m.st.display.Weather = "Weather: " + ErrorText
			return true
		}
		m.st.weather = r.text
		m.st.display.Weather = "Weather: " + r.text

	case lookupRoad:
		if r.cycle <= m.st.roadCycle {
			return false
		}
		m.st.roadCycle = r.cycle
		if r.err != nil {
			log.Printf("INFO: road lookup failed: %v", r.err)
			m.st.display.Road = "Road: " + ErrorText
			return true
		}
		m.st.road = r.text
		m.st.display.Road = "Road: " + r.text
	}
	return true
}

func (m *Monitor) publish() {
	d := m.st.display

	m.subsMu.Lock()
	defer m.subsMu.Unlock()

	for ch := range m.subs {
		// Replace a pending value nobody has read yet.
		select {
		case <-ch:
		default:
		}
		ch <- d
	}
}
