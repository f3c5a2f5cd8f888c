package weather

import (
	"fmt"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Location is the position a weather lookup is made for.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Key returns a canonical string key for logging.
func (l Location) Key() string {
	return fmt.Sprintf("%.4f,%.4f", l.Lat, l.Lon)
}

// Reading is a single provider's answer for a location.
// Text providers fill Summary only; JSON providers fill the numeric fields.
type Reading struct {
	ProviderName string
	Timestamp    time.Time

	TemperatureC float64
	Condition    Condition
	Summary      string
}

// Text renders the reading as the one-line summary shown to the driver.
func (r Reading) Text() string {
	if r.Summary != "" {
		return r.Summary
	}
	cond := r.Condition
	if cond == "" {
		cond = ConditionUnknown
	}
	return fmt.Sprintf("%s %+.0f°C", cond, r.TemperatureC)
}
