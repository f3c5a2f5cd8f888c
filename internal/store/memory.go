package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/drive-sensor-logger/internal/telemetry"
)

var (
	// ErrNotFound is returned when no rows match a query.
	ErrNotFound = errors.New("no readings recorded")
)

// MemoryStore is a concurrency-safe in-memory view of recently logged rows.
// The CSV log stays the durable record; this only backs the readings API.
type MemoryStore struct {
	mu   sync.RWMutex
	rows []telemetry.LogRow

	// retention configuration
	maxHistory int           // max number of rows kept
	maxAge     time.Duration // optional max age for rows

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Record appends a row and enforces retention.
func (s *MemoryStore) Record(row telemetry.LogRow) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = append(s.rows, row)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.rows) > s.maxHistory {
		over := len(s.rows) - s.maxHistory
		s.rows = append([]telemetry.LogRow(nil), s.rows[over:]...)
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(s.rows); i++ {
			if !s.rows[i].Timestamp.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			s.rows = append([]telemetry.LogRow(nil), s.rows[i:]...)
		}
	}
}

// Latest returns the most recently recorded row.
func (s *MemoryStore) Latest() (telemetry.LogRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.rows) == 0 {
		return telemetry.LogRow{}, ErrNotFound
	}
	return s.rows[len(s.rows)-1], nil
}

// Range returns all rows between from and to (inclusive).
func (s *MemoryStore) Range(from, to time.Time) ([]telemetry.LogRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []telemetry.LogRow
	for _, row := range s.rows {
		if !row.Timestamp.Before(from) && !row.Timestamp.After(to) {
			result = append(result, row)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// Len returns the number of rows currently retained.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}
