package dashboard

import "github.com/i474232898/drive-sensor-logger/internal/telemetry"

// DisplayMsg carries a new set of display strings from the monitor.
type DisplayMsg struct {
	Display telemetry.Display
}

// ShareResultMsg reports the outcome of the share action.
type ShareResultMsg struct {
	Shared bool
	Err    error
}

// Key binding constants used in handleKey.
const (
	KeyShare     = "s"
	KeyShareUp   = "S"
	KeyQuit      = "q"
	KeyQuitUpper = "Q"
	KeyCtrlC     = "ctrl+c"
)
