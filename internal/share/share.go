// Package share hands the sensor log to whatever mechanism delivers it to
// the user: the desktop opener, an HTTP download, and so on.
package share

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// MIMEType is the content type the log is shared as.
const MIMEType = "text/csv"

// Opener delivers a file to the user.
type Opener interface {
	Open(ctx context.Context, path, mimeType string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, path, mimeType string) error

func (f OpenerFunc) Open(ctx context.Context, path, mimeType string) error {
	return f(ctx, path, mimeType)
}

// Sharer shares one log file.
type Sharer struct {
	path   string
	opener Opener
}

// New returns a Sharer for the file at path using opener by default.
func New(path string, opener Opener) *Sharer {
	return &Sharer{path: path, opener: opener}
}

// Path returns the shared file location.
func (s *Sharer) Path() string {
	return s.path
}

// Share hands the log to the default opener. It reports false, without
// error, when there is no log yet.
func (s *Sharer) Share(ctx context.Context) (bool, error) {
	return s.ShareWith(ctx, s.opener)
}

// ShareWith is Share with a one-off opener.
func (s *Sharer) ShareWith(ctx context.Context, opener Opener) (bool, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", s.path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory", s.path)
	}
	if opener == nil {
		return false, fmt.Errorf("no opener configured")
	}

	if err := opener.Open(ctx, s.path, MIMEType); err != nil {
		return false, fmt.Errorf("share %s: %w", s.path, err)
	}
	return true, nil
}
