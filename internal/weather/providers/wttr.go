package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/drive-sensor-logger/internal/common"
	"github.com/i474232898/drive-sensor-logger/internal/weather"
)

// DefaultWttrURL answers with a one-line summary for the caller's IP location.
const DefaultWttrURL = "https://wttr.in/?format=3"

// maxTextBody caps how much of a plain-text answer is read.
const maxTextBody = 4096

// WttrProvider implements the weather.Provider interface for wttr.in.
type WttrProvider struct {
	name    string
	baseURL string
	httpCfg common.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWttrProvider(httpCfg common.HTTPClientConfig, baseURL string) *WttrProvider {
	if baseURL == "" {
		baseURL = DefaultWttrURL
	}
	return &WttrProvider{
		name:    "wttr",
		baseURL: baseURL,
		httpCfg: httpCfg,
		circuit: common.NewCircuitBreaker("wttr"),
	}
}

func (p *WttrProvider) Name() string {
	return p.name
}

// Fetch ignores loc: wttr.in resolves the location from the request origin.
func (p *WttrProvider) Fetch(ctx context.Context, _ weather.Location) (weather.Reading, error) {
	resp, err := common.DoRequest(ctx, p.httpCfg, p.circuit, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, p.baseURL, nil)
	})
	if err != nil {
		return weather.Reading{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTextBody))
	if err != nil {
		return weather.Reading{}, fmt.Errorf("read wttr body: %w", err)
	}

	return weather.Reading{
		ProviderName: p.name,
		Timestamp:    time.Now().UTC(),
		Summary:      strings.TrimSpace(string(body)),
	}, nil
}
