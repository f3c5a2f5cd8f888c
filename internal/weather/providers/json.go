package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/drive-sensor-logger/internal/common"
)

// getJSON issues one GET for base?query and decodes the answer into out.
func getJSON(ctx context.Context, httpCfg common.HTTPClientConfig, cb *gobreaker.CircuitBreaker, base string, query url.Values, out any) error {
	resp, err := common.DoRequest(ctx, httpCfg, cb, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, base+"?"+query.Encode(), nil)
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", cb.Name(), err)
	}
	return nil
}

func coord(v float64) string {
	return fmt.Sprintf("%f", v)
}
