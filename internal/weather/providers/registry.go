package providers

import (
	"fmt"
	"strings"

	"github.com/i474232898/drive-sensor-logger/internal/common"
	"github.com/i474232898/drive-sensor-logger/internal/weather"
)

// Options selects and configures one weather provider.
type Options struct {
	Name              string
	BaseURL           string
	OpenWeatherAPIKey string
	WeatherAPIKey     string
}

// New builds the provider named by opts.Name.
func New(httpCfg common.HTTPClientConfig, opts Options) (weather.Provider, error) {
	switch strings.ToLower(opts.Name) {
	case "", "wttr":
		return NewWttrProvider(httpCfg, opts.BaseURL), nil
	case "openmeteo":
		return NewOpenMeteoProvider(httpCfg, opts.BaseURL), nil
	case "openweather", "openweathermap":
		return NewOpenWeatherProvider(httpCfg, opts.BaseURL, opts.OpenWeatherAPIKey), nil
	case "weatherapi":
		return NewWeatherAPIProvider(httpCfg, opts.BaseURL, opts.WeatherAPIKey), nil
	default:
		return nil, fmt.Errorf("unknown weather provider %q", opts.Name)
	}
}
