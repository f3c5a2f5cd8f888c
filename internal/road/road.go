// Package road resolves a position into the road the vehicle is on.
package road

import (
	"context"
	"fmt"
)

const (
	UnknownRoad = "Unknown Road"
	UnknownType = "Unknown Type"
)

// Info is the reverse-geocoded road name and its classification.
type Info struct {
	Road string `json:"road"`
	Type string `json:"type"`
}

// String renders the info the way it is displayed and logged: "Main St (residential)".
func (i Info) String() string {
	return fmt.Sprintf("%s (%s)", i.Road, i.Type)
}

// Provider abstracts a reverse geocoding backend.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, lat, lon float64) (Info, error)
}

// Service performs the single road lookup made per location update.
type Service struct {
	provider Provider
}

func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// Describe returns the formatted road info for lat/lon.
func (s *Service) Describe(ctx context.Context, lat, lon float64) (string, error) {
	if s.provider == nil {
		return "", fmt.Errorf("no road provider configured")
	}
	info, err := s.provider.Lookup(ctx, lat, lon)
	if err != nil {
		return "", fmt.Errorf("provider %s: %w", s.provider.Name(), err)
	}
	return info.String(), nil
}
