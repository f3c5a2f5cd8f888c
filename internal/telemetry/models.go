package telemetry

import (
	"fmt"
	"strconv"
	"time"
)

// MPHPerMPS converts metres per second to miles per hour.
const MPHPerMPS float32 = 2.23694

// SensorKind identifies one of the motion sensors the logger samples.
type SensorKind string

const (
	Accelerometer SensorKind = "accelerometer"
	Gyroscope     SensorKind = "gyroscope"
)

// ParseSensorKind maps a user supplied name to a SensorKind.
func ParseSensorKind(s string) (SensorKind, error) {
	switch SensorKind(s) {
	case Accelerometer, Gyroscope:
		return SensorKind(s), nil
	default:
		return "", fmt.Errorf("unknown sensor kind %q", s)
	}
}

// Vector is a raw 3-axis sensor sample.
type Vector struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

// LocationSample is one fix from the location source. Speed is in m/s.
type LocationSample struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Speed     float32 `json:"speed"`
}

// SpeedMPH converts a speed in m/s to mph.
func SpeedMPH(mps float32) float32 {
	return mps * MPHPerMPS
}

// FormatVector renders v with two decimals per axis, e.g. "Acceleration: x=0.10, y=-9.81, z=0.00".
func FormatVector(label string, v Vector) string {
	return fmt.Sprintf("%s: x=%.2f, y=%.2f, z=%.2f", label, v.X, v.Y, v.Z)
}

// Display holds the seven strings rendered by every presentation surface.
type Display struct {
	Acceleration string `json:"acceleration"`
	Gyroscope    string `json:"gyroscope"`
	Speed        string `json:"speed"`
	Time         string `json:"time"`
	Day          string `json:"day"`
	Weather      string `json:"weather"`
	Road         string `json:"road"`
}

// InitialDisplay is shown before any sample arrives.
func InitialDisplay() Display {
	return Display{
		Acceleration: "Acceleration: N/A",
		Gyroscope:    "Cornering: N/A",
		Speed:        "Speed: N/A",
		Time:         "Time: --:--",
		Day:          "Day: ---",
		Weather:      "Weather: Fetching...",
		Road:         "Road: Fetching...",
	}
}

// ErrorText replaces a lookup result that failed for any reason.
const ErrorText = "Error"

// UnknownText is the cached weather/road value until a lookup succeeds.
const UnknownText = "Unknown"

// LogHeader is the column layout of the CSV log.
var LogHeader = []string{
	"Timestamp", "Day", "Time",
	"Accel X", "Accel Y", "Accel Z",
	"Gyro X", "Gyro Y", "Gyro Z",
	"Speed (mph)", "Weather", "Road Info",
}

// LogRow is the denormalized reading appended for every location update.
type LogRow struct {
	Timestamp time.Time `json:"timestamp"`
	Day       string    `json:"day"`
	Time      string    `json:"time"`
	Accel     Vector    `json:"accel"`
	Gyro      Vector    `json:"gyro"`
	SpeedMPH  float32   `json:"speedMph"`
	Weather   string    `json:"weather"`
	Road      string    `json:"road"`
}

// Fields returns the row in LogHeader order.
func (r LogRow) Fields() []string {
	return []string{
		r.Timestamp.Format("2006-01-02 15:04:05"),
		r.Day,
		r.Time,
		formatAxis(r.Accel.X), formatAxis(r.Accel.Y), formatAxis(r.Accel.Z),
		formatAxis(r.Gyro.X), formatAxis(r.Gyro.Y), formatAxis(r.Gyro.Z),
		strconv.FormatFloat(float64(r.SpeedMPH), 'f', 2, 32),
		r.Weather,
		r.Road,
	}
}

func formatAxis(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32)
}
