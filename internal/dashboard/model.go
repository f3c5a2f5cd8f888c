// Package dashboard is the terminal presentation of the monitor's display strings.
package dashboard

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/i474232898/drive-sensor-logger/internal/telemetry"
)

// Sharer hands the sensor log to the user.
type Sharer interface {
	Share(ctx context.Context) (bool, error)
}

// Model is the root bubbletea model. It renders whatever display it last
// received and owns no telemetry state.
type Model struct {
	display telemetry.Display
	updates <-chan telemetry.Display
	sharer  Sharer

	width  int
	status string
	err    error
}

// New creates a Model showing initial until the first update arrives.
func New(initial telemetry.Display, updates <-chan telemetry.Display, sharer Sharer) Model {
	return Model{
		display: initial,
		updates: updates,
		sharer:  sharer,
	}
}

// Err returns the fault that stopped the dashboard, if any.
func (m Model) Err() error {
	return m.err
}

// Init starts listening for display updates.
func (m Model) Init() tea.Cmd {
	return waitForDisplayCmd(m.updates)
}

// waitForDisplayCmd blocks until the monitor publishes a new display.
func waitForDisplayCmd(updates <-chan telemetry.Display) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		d, ok := <-updates
		if !ok {
			return nil
		}
		return DisplayMsg{Display: d}
	}
}

// shareCmd runs the share action off the update loop.
func shareCmd(sharer Sharer) tea.Cmd {
	return func() tea.Msg {
		shared, err := sharer.Share(context.Background())
		return ShareResultMsg{Shared: shared, Err: err}
	}
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case DisplayMsg:
		m.display = msg.Display
		return m, waitForDisplayCmd(m.updates)

	case ShareResultMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, tea.Quit
		}
		// A missing log is not reported.
		if msg.Shared {
			m.status = "Sensor log shared"
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitUpper, KeyCtrlC:
		return m, tea.Quit
	case KeyShare, KeyShareUp:
		if m.sharer == nil {
			return m, nil
		}
		return m, shareCmd(m.sharer)
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	d := m.display
	var b strings.Builder

	section := func(title string, lines ...string) {
		b.WriteString(sectionTitleStyle.Render(title))
		b.WriteString("\n")
		for _, l := range lines {
			b.WriteString(bodyStyle.Render(l))
			b.WriteString("\n")
		}
		b.WriteString(m.divider())
		b.WriteString("\n")
	}

	section("Acceleration & Braking Patterns", d.Acceleration, d.Gyroscope)
	section("Cornering Behavior", d.Gyroscope, d.Speed)
	section("Speed Consistency", d.Speed)
	section("Lane Changes & Drifts", d.Acceleration, d.Gyroscope)
	section("Environmental Context", d.Day, d.Time, d.Weather, d.Road)
	section("Wearable Device Metrics (if available)",
		dimStyle.Render("HRV: Not Connected"),
		dimStyle.Render("Stress Level: Not Available"))

	b.WriteString(footerKeyStyle.Render("s"))
	b.WriteString(footerDescStyle.Render(" Share Sensor Log  "))
	b.WriteString(footerKeyStyle.Render("q"))
	b.WriteString(footerDescStyle.Render(" Quit"))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Share failed: " + m.err.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) divider() string {
	w := m.width
	if w <= 0 || w > 60 {
		w = 40
	}
	return dividerStyle.Render(strings.Repeat("─", w))
}
