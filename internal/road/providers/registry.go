package providers

import (
	"fmt"
	"strings"

	"github.com/i474232898/drive-sensor-logger/internal/common"
	"github.com/i474232898/drive-sensor-logger/internal/road"
)

// Options selects and configures one road provider.
type Options struct {
	Name           string
	BaseURL        string
	GeocoderAPIKey string
}

// New builds the provider named by opts.Name.
func New(httpCfg common.HTTPClientConfig, opts Options) (road.Provider, error) {
	switch strings.ToLower(opts.Name) {
	case "", "nominatim":
		return NewNominatimProvider(httpCfg, opts.BaseURL), nil
	case "google":
		if opts.GeocoderAPIKey == "" {
			return nil, fmt.Errorf("google road provider requires GEOCODER_API_KEY")
		}
		return NewGoogleProvider(opts.GeocoderAPIKey), nil
	default:
		return nil, fmt.Errorf("unknown road provider %q", opts.Name)
	}
}
