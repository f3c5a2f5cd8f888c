package weather

import "context"

// Provider abstracts a weather data source (wttr.in, OpenWeatherMap, WeatherAPI, Open-Meteo).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (Reading, error)
}
