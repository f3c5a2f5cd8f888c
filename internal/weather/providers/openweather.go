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

// OpenWeatherProvider reads current conditions from OpenWeatherMap by coordinates.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(httpCfg common.HTTPClientConfig, baseURL, apiKey string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org/data/2.5/weather"
	}
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: httpCfg,
		circuit: common.NewCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type openWeatherAnswer struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("openweather: OPENWEATHER_API_KEY is not set")
	}

	query := url.Values{
		"appid": {p.apiKey},
		"units": {"metric"},
		"lat":   {coord(loc.Lat)},
		"lon":   {coord(loc.Lon)},
	}

	var payload openWeatherAnswer
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL, query, &payload); err != nil {
		return weather.Reading{}, err
	}

	r := weather.Reading{
		ProviderName: p.name,
		Timestamp:    time.Now().UTC(),
		TemperatureC: payload.Main.Temp,
		Condition:    weather.ConditionUnknown,
	}
	if payload.Dt > 0 {
		r.Timestamp = time.Unix(payload.Dt, 0).UTC()
	}
	if len(payload.Weather) > 0 {
		r.Condition = openWeatherConditions[payload.Weather[0].Main]
	}
	if r.Condition == "" {
		r.Condition = weather.ConditionUnknown
	}
	return r, nil
}

// openWeatherConditions maps OpenWeatherMap's "main" groups.
var openWeatherConditions = map[string]weather.Condition{
	"Clear":        weather.ConditionClear,
	"Clouds":       weather.ConditionCloudy,
	"Rain":         weather.ConditionRain,
	"Drizzle":      weather.ConditionRain,
	"Snow":         weather.ConditionSnow,
	"Thunderstorm": weather.ConditionStorm,
	"Mist":         weather.ConditionMist,
	"Fog":          weather.ConditionMist,
	"Haze":         weather.ConditionMist,
}
