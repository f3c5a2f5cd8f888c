package weather

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	reading Reading
	err     error
	got     Location
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Fetch(_ context.Context, loc Location) (Reading, error) {
	s.got = loc
	return s.reading, s.err
}

func TestServiceSummary(t *testing.T) {
	p := &stubProvider{reading: Reading{Summary: "  London: ⛅️ +12°C\n"}}
	text, err := NewService(p).Summary(context.Background(), 51.5, -0.12)
	require.NoError(t, err)
	assert.Equal(t, "London: ⛅️ +12°C", text)
	assert.Equal(t, Location{Lat: 51.5, Lon: -0.12}, p.got)
}

func TestServiceSummaryFromFields(t *testing.T) {
	p := &stubProvider{reading: Reading{TemperatureC: -3.4, Condition: ConditionSnow}}
	text, err := NewService(p).Summary(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "snow -3°C", text)
}

func TestServiceSummaryErrors(t *testing.T) {
	_, err := NewService(nil).Summary(context.Background(), 0, 0)
	assert.Error(t, err)

	boom := errors.New("boom")
	_, err = NewService(&stubProvider{err: boom}).Summary(context.Background(), 37.33182, -122.03118)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "stub at 37.3318,-122.0312")

	_, err = NewService(&stubProvider{reading: Reading{Summary: "   "}}).Summary(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrEmptyReading)
}
