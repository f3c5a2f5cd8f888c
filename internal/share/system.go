package share

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// SystemOpener opens files with the desktop's default handler.
type SystemOpener struct {
	// Command overrides the platform default (xdg-open, open, rundll32).
	Command string
}

func (o SystemOpener) Open(ctx context.Context, path, _ string) error {
	name, args := o.command(path)
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w (%s)", name, err, out)
	}
	return nil
}

func (o SystemOpener) command(path string) (string, []string) {
	if o.Command != "" {
		return o.Command, []string{path}
	}
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}
