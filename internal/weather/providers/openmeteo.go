package providers

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/drive-sensor-logger/internal/common"
	"github.com/i474232898/drive-sensor-logger/internal/weather"
)

// OpenMeteoProvider reads current conditions from Open-Meteo. No API key is needed.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(httpCfg common.HTTPClientConfig, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = "https://api.open-meteo.com/v1/forecast"
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: httpCfg,
		circuit: common.NewCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// openMeteoCurrent is the current_weather block of a forecast answer.
type openMeteoCurrent struct {
	Temperature float64 `json:"temperature"`
	Time        string  `json:"time"`
	WeatherCode int     `json:"weathercode"`
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Reading, error) {
	query := url.Values{
		"latitude":        {coord(loc.Lat)},
		"longitude":       {coord(loc.Lon)},
		"current_weather": {"true"},
	}

	var payload struct {
		Current *openMeteoCurrent `json:"current_weather"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL, query, &payload); err != nil {
		return weather.Reading{}, err
	}
	if payload.Current == nil {
		return weather.Reading{}, fmt.Errorf("openmeteo: missing current_weather")
	}

	// Local time without an offset; fall back to now when absent.
	ts, err := time.Parse("2006-01-02T15:04", payload.Current.Time)
	if err != nil {
		ts = time.Now()
	}

	return weather.Reading{
		ProviderName: p.name,
		Timestamp:    ts.UTC(),
		TemperatureC: payload.Current.Temperature,
		Condition:    mapOpenMeteoCondition(payload.Current.WeatherCode),
	}, nil
}

func mapOpenMeteoCondition(code int) weather.Condition {
	// WMO weather interpretation codes.
	switch {
	case code == 0:
		return weather.ConditionClear
	case code >= 1 && code <= 3:
		return weather.ConditionCloudy
	case code == 45 || code == 48:
		return weather.ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return weather.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return weather.ConditionSnow
	case code >= 95:
		return weather.ConditionStorm
	default:
		return weather.ConditionUnknown
	}
}
