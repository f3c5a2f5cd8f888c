// Package csvlog appends telemetry rows to the on-disk sensor log.
package csvlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/i474232898/drive-sensor-logger/internal/telemetry"
)

// FileName is the name of the log inside the log directory.
const FileName = "sensor_log.csv"

// Logger appends one row per location update to a CSV file. The header is
// written the first time the file is created; rows are never rewritten.
type Logger struct {
	mu   sync.Mutex
	path string
	rows uint64
}

// New returns a Logger writing to dir/sensor_log.csv. Nothing is touched
// on disk until the first Append.
func New(dir string) *Logger {
	return &Logger{path: filepath.Join(dir, FileName)}
}

// Path returns the log file location.
func (l *Logger) Path() string {
	return l.path
}

// Append writes row, creating the file with a header when it does not exist.
func (l *Logger) Append(row telemetry.LogRow) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("csv mkdir %s: %w", filepath.Dir(l.path), err)
	}

	// O_EXCL tells us whether this call created the file.
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	created := err == nil
	if errors.Is(err, fs.ErrExist) {
		f, err = os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0o644)
	}
	if err != nil {
		return fmt.Errorf("csv open %s: %w", l.path, err)
	}

	w := csv.NewWriter(f)
	if created {
		if err := w.Write(telemetry.LogHeader); err != nil {
			f.Close()
			return fmt.Errorf("csv write header: %w", err)
		}
	}
	if err := w.Write(row.Fields()); err != nil {
		f.Close()
		return fmt.Errorf("csv write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("csv flush: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("csv close: %w", err)
	}

	l.rows++
	return nil
}

// Rows returns the number of rows appended by this Logger (excludes header).
func (l *Logger) Rows() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rows
}
