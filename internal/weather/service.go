package weather

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyReading is returned when a provider answers with nothing to show.
var ErrEmptyReading = errors.New("empty weather reading")

// Service performs the single weather lookup made per location update.
type Service struct {
	provider Provider
}

// NewService creates a new Service.
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// Summary fetches the current weather for lat/lon and returns it as one line.
func (s *Service) Summary(ctx context.Context, lat, lon float64) (string, error) {
	if s.provider == nil {
		return "", fmt.Errorf("no weather provider configured")
	}

	loc := Location{Lat: lat, Lon: lon}
	r, err := s.provider.Fetch(ctx, loc)
	if err != nil {
		return "", fmt.Errorf("provider %s at %s: %w", s.provider.Name(), loc.Key(), err)
	}

	text := strings.TrimSpace(r.Text())
	if text == "" {
		return "", fmt.Errorf("provider %s: %w", s.provider.Name(), ErrEmptyReading)
	}
	return text, nil
}
