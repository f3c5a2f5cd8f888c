package ingest

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/golang/geo/s2"

	"github.com/i474232898/drive-sensor-logger/internal/telemetry"
)

// EarthRadiusMeters is the mean Earth radius used for route distances.
const EarthRadiusMeters = 6371008.8

// Waypoint is a route vertex in decimal degrees.
type Waypoint struct {
	Lat float64
	Lon float64
}

// DefaultRoute is a short loop through Cupertino, CA.
var DefaultRoute = []Waypoint{
	{Lat: 37.3230, Lon: -122.0322},
	{Lat: 37.3230, Lon: -122.0140},
	{Lat: 37.3318, Lon: -122.0140},
	{Lat: 37.3318, Lon: -122.0322},
}

// SimulatedDrive moves along a closed route at a roughly constant speed,
// producing one fix per call to Next.
type SimulatedDrive struct {
	mu       sync.Mutex
	rng      *rand.Rand
	route    []s2.LatLng
	seg      int
	offset   float64 // metres travelled into the current segment
	speed    float32 // m/s
	interval time.Duration
}

// NewSimulatedDrive returns a drive over route at speedMPS, advancing by
// one interval per fix. An empty route uses DefaultRoute.
func NewSimulatedDrive(route []Waypoint, speedMPS float32, interval time.Duration, seed int64) *SimulatedDrive {
	if len(route) == 0 {
		route = DefaultRoute
	}
	pts := make([]s2.LatLng, 0, len(route))
	for _, w := range route {
		pts = append(pts, s2.LatLngFromDegrees(w.Lat, w.Lon))
	}
	return &SimulatedDrive{
		rng:      rand.New(rand.NewSource(seed)),
		route:    pts,
		speed:    speedMPS,
		interval: interval,
	}
}

// Next advances the drive and returns the new fix.
func (d *SimulatedDrive) Next() telemetry.LocationSample {
	d.mu.Lock()
	defer d.mu.Unlock()

	speed := d.speed * float32(0.9+0.2*d.rng.Float64())
	if speed < 0 {
		speed = 0
	}

	total := d.routeLength()
	if total == 0 {
		return telemetry.LocationSample{
			Latitude:  d.route[0].Lat.Degrees(),
			Longitude: d.route[0].Lng.Degrees(),
			Speed:     speed,
		}
	}

	remaining := math.Mod(float64(speed)*d.interval.Seconds(), total)
	for remaining > 0 {
		a, b := d.segment()
		left := a.Distance(b).Radians()*EarthRadiusMeters - d.offset
		if remaining < left {
			d.offset += remaining
			break
		}
		remaining -= left
		d.offset = 0
		d.seg = (d.seg + 1) % len(d.route)
	}

	a, b := d.segment()
	frac := 0.0
	if length := a.Distance(b).Radians() * EarthRadiusMeters; length > 0 {
		frac = d.offset / length
	}
	pos := s2.LatLngFromPoint(s2.Interpolate(frac, s2.PointFromLatLng(a), s2.PointFromLatLng(b)))

	return telemetry.LocationSample{
		Latitude:  pos.Lat.Degrees(),
		Longitude: pos.Lng.Degrees(),
		Speed:     speed,
	}
}

func (d *SimulatedDrive) routeLength() float64 {
	var total float64
	for i := range d.route {
		a, b := d.route[i], d.route[(i+1)%len(d.route)]
		total += a.Distance(b).Radians() * EarthRadiusMeters
	}
	return total
}

func (d *SimulatedDrive) segment() (s2.LatLng, s2.LatLng) {
	return d.route[d.seg], d.route[(d.seg+1)%len(d.route)]
}

// ValidPosition reports whether lat/lon is a real point on the globe.
func ValidPosition(lat, lon float64) bool {
	return s2.LatLngFromDegrees(lat, lon).IsValid()
}
