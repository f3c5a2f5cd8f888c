package ingest

import (
	"math"
	"math/rand"
	"sync"

	"github.com/i474232898/drive-sensor-logger/internal/telemetry"
)

// SimulatedIMU produces plausible phone-frame motion samples for a car
// gently accelerating, braking and cornering.
type SimulatedIMU struct {
	mu   sync.Mutex
	rng  *rand.Rand
	step float64
}

func NewSimulatedIMU(seed int64) *SimulatedIMU {
	return &SimulatedIMU{rng: rand.New(rand.NewSource(seed))}
}

// Sample returns the next reading for kind.
func (s *SimulatedIMU) Sample(kind telemetry.SensorKind) telemetry.Vector {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.step += 0.05
	noise := func(scale float64) float32 {
		return float32((s.rng.Float64() - 0.5) * scale)
	}

	switch kind {
	case telemetry.Accelerometer:
		// m/s^2, gravity on Z with longitudinal surges on Y.
		return telemetry.Vector{
			X: float32(0.4*math.Sin(s.step*0.7)) + noise(0.05),
			Y: float32(1.2*math.Sin(s.step*0.3)) + noise(0.05),
			Z: 9.81 + noise(0.04),
		}
	case telemetry.Gyroscope:
		// rad/s, yaw dominates while cornering.
		return telemetry.Vector{
			X: float32(0.01*math.Sin(s.step*2)) + noise(0.002),
			Y: float32(0.01*math.Cos(s.step*2)) + noise(0.002),
			Z: float32(0.25*math.Sin(s.step*0.4)) + noise(0.01),
		}
	default:
		return telemetry.Vector{}
	}
}
