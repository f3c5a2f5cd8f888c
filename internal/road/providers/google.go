package providers

import (
	"context"
	"fmt"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/drive-sensor-logger/internal/common"
	"github.com/i474232898/drive-sensor-logger/internal/road"
)

// GoogleProvider implements road.Provider with the Google Geocoding API.
type GoogleProvider struct {
	name    string
	circuit *gobreaker.CircuitBreaker
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

// NewGoogleProvider configures the geocoder package key; the key is process-wide.
func NewGoogleProvider(apiKey string) *GoogleProvider {
	geocoder.ApiKey = apiKey
	return &GoogleProvider{
		name:    "google",
		circuit: common.NewCircuitBreaker("google-geocoder"),
		reverse: geocoder.GeocodingReverse,
	}
}

func (p *GoogleProvider) Name() string {
	return p.name
}

func (p *GoogleProvider) Lookup(ctx context.Context, lat, lon float64) (road.Info, error) {
	type outcome struct {
		info road.Info
		err  error
	}
	done := make(chan outcome, 1)

	// The geocoder package has no context support; abandon the call on cancel.
	go func() {
		result, err := p.circuit.Execute(func() (interface{}, error) {
			return p.reverse(geocoder.Location{Latitude: lat, Longitude: lon})
		})
		if err != nil {
			done <- outcome{err: err}
			return
		}
		addresses, _ := result.([]geocoder.Address)
		if len(addresses) == 0 {
			done <- outcome{err: fmt.Errorf("google: %w", ErrNoAddress)}
			return
		}
		done <- outcome{info: road.Info{
			Road: common.OrDefault(addresses[0].Street, road.UnknownRoad),
			Type: common.OrDefault(addresses[0].Types, road.UnknownType),
		}}
	}()

	select {
	case <-ctx.Done():
		return road.Info{}, ctx.Err()
	case o := <-done:
		return o.info, o.err
	}
}
