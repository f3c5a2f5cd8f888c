package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/drive-sensor-logger/internal/common"
	"github.com/i474232898/drive-sensor-logger/internal/road"
)

// ErrNoAddress is returned when the geocoder answers without an address object.
var ErrNoAddress = errors.New("response has no address")

// NominatimProvider implements road.Provider against an OpenStreetMap Nominatim instance.
type NominatimProvider struct {
	name    string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewNominatimProvider(httpCfg common.HTTPClientConfig, baseURL string) *NominatimProvider {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &NominatimProvider{
		name:    "nominatim",
		baseURL: baseURL,
		httpCfg: httpCfg,
		circuit: common.NewCircuitBreaker("nominatim"),
	}
}

func (p *NominatimProvider) Name() string {
	return p.name
}

func (p *NominatimProvider) Lookup(ctx context.Context, lat, lon float64) (road.Info, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("format", "json")
		values.Set("lat", fmt.Sprintf("%v", lat))
		values.Set("lon", fmt.Sprintf("%v", lon))

		return http.NewRequest(http.MethodGet, fmt.Sprintf("%s/reverse?%s", p.baseURL, values.Encode()), nil)
	}

	resp, err := common.DoRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return road.Info{}, err
	}
	defer resp.Body.Close()

	// Pointers tell a missing or null key apart from an empty string.
	var payload struct {
		Address *struct {
			Road *string `json:"road"`
		} `json:"address"`
		Type *string `json:"type"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return road.Info{}, err
	}
	if payload.Address == nil {
		return road.Info{}, ErrNoAddress
	}

	return road.Info{
		Road: stringOr(payload.Address.Road, road.UnknownRoad),
		Type: stringOr(payload.Type, road.UnknownType),
	}, nil
}

func stringOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
