package footer

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// State is what the viewer currently shows
type State struct {
	HasReport bool
	Running   bool
	Finished  time.Time
}

// Component renders the key hints and the age of the shown report
type Component struct {
	keyStyle    lipgloss.Style
	statusStyle lipgloss.Style
}

func New() *Component {
	return &Component{
		keyStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00aa00")).
			Faint(true),
		statusStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")),
	}
}

type hint struct {
	key, action string
}

func (h hint) String() string {
	return "[" + h.key + "] " + h.action
}

// Hints lists the keys that do something in the given state
func Hints(s State) []string {
	var hints []hint
	if s.HasReport && !s.Running {
		hints = append(hints,
			hint{"↑/↓", "move"},
			hint{"enter", "show message"},
			hint{"tab", "switch pane"},
		)
	}
	if !s.Running {
		hints = append(hints, hint{"r", "run again"})
	}
	hints = append(hints, hint{"q", "quit"})

	out := make([]string, 0, len(hints))
	for _, h := range hints {
		out = append(out, h.String())
	}
	return out
}

// Status describes the shown report, empty when there is nothing to describe
func Status(s State) string {
	switch {
	case s.Running:
		return "run in progress"
	case s.HasReport && !s.Finished.IsZero():
		return "last run finished " + s.Finished.Format("02.01.2006 15:04:05")
	}
	return ""
}

// View renders the footer line
func (c *Component) View(s State) string {
	line := c.keyStyle.Render(strings.Join(Hints(s), "  "))
	if status := Status(s); status != "" {
		line += "   " + c.statusStyle.Render(status)
	}
	return line
}
