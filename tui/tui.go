// Package tui is the interactive report viewer
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"authcheck-cli/testreport"
	"authcheck-cli/tui/components/footer"
	"authcheck-cli/tui/components/table"
	"authcheck-cli/tui/testresults"
)

// Coordinator runs the suite and loads the stored report
type Coordinator interface {
	Trigger(ctx context.Context) (*testreport.Report, error)
	Latest() (*testreport.Report, error)
}

type pane int

const (
	paneResults pane = iota
	paneGroups
)

type reportMsg struct {
	report *testreport.Report
}

type errMsg struct {
	err error
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffaa")).
			Underline(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000"))
)

type keyMap struct {
	Rerun key.Binding
	Tab   key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Rerun: key.NewBinding(key.WithKeys("r")),
	Tab:   key.NewBinding(key.WithKeys("tab")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c")),
}

// Model is the root Bubble Tea model
type Model struct {
	coord   Coordinator
	ctx     context.Context
	report  *testreport.Report
	groups  *table.Component
	results *testresults.TestResultsComponent
	footer  *footer.Component
	focus   pane
	running bool
	errText string
}

// InitialModel creates the viewer. The stored report is loaded on Init.
func InitialModel(ctx context.Context, coord Coordinator) Model {
	return Model{
		coord:   coord,
		ctx:     ctx,
		groups:  table.New(),
		results: testresults.New(),
		footer:  footer.New(),
	}
}

// Init loads the latest report
func (m Model) Init() tea.Cmd {
	return m.loadLatest
}

func (m Model) loadLatest() tea.Msg {
	report, err := m.coord.Latest()
	if errors.Is(err, testreport.ErrNoReport) {
		return reportMsg{}
	}
	if err != nil {
		return errMsg{err: err}
	}
	return reportMsg{report: report}
}

func (m Model) rerun() tea.Msg {
	report, err := m.coord.Trigger(m.ctx)
	if err != nil {
		return errMsg{err: err}
	}
	return reportMsg{report: report}
}

// Update handles incoming messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// header, table, help and footer take roughly a dozen lines
		m.results.SetHeight(msg.Height - 12 - m.groupRows())
		return m, nil

	case reportMsg:
		m.running = false
		m.errText = ""
		m.report = msg.report
		if msg.report != nil {
			m.groups.SetStats(msg.report.Stats.PerGroup)
			m.results.SetReport(msg.report)
		}
		return m, nil

	case errMsg:
		m.running = false
		m.errText = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Rerun):
			if m.running {
				return m, nil
			}
			m.running = true
			return m, m.rerun
		case key.Matches(msg, keys.Tab):
			if m.focus == paneResults {
				m.focus = paneGroups
			} else {
				m.focus = paneResults
				m.results.JumpToGroup(m.groups.HighlightedGroup())
			}
			m.groups.SetFocused(m.focus == paneGroups)
			return m, nil
		}

		var cmd tea.Cmd
		if m.focus == paneGroups {
			m.groups, cmd = m.groups.Update(msg)
		} else {
			m.results, cmd = m.results.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View renders the viewer
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Authentication form checks"))
	b.WriteString("\n")

	switch {
	case m.running:
		b.WriteString("Running tests...\n")
	case m.report == nil:
		b.WriteString("No report yet. Press r to run the tests.\n")
	default:
		b.WriteString(m.report.Summary())
		b.WriteString(fmt.Sprintf("   Time: %.3fs\n", m.report.Stats.Duration))
	}
	if m.errText != "" {
		b.WriteString(errorStyle.Render("Error: " + m.errText))
		b.WriteString("\n")
	}

	if m.report != nil {
		b.WriteString("\n")
		b.WriteString(m.groups.View())
		b.WriteString("\n\n")
		b.WriteString(m.results.View())
		b.WriteString("\n")
		b.WriteString(m.results.HelpView())
		b.WriteString("\n")
	}

	state := footer.State{HasReport: m.report != nil, Running: m.running}
	if m.report != nil {
		state.Finished = m.report.Finished()
	}
	b.WriteString(m.footer.View(state))
	return b.String()
}

func (m Model) groupRows() int {
	if m.report == nil {
		return 0
	}
	return m.report.Stats.PerGroup.Len() + 4
}

// Run starts the viewer on the alternate screen
func Run(ctx context.Context, coord Coordinator) error {
	p := tea.NewProgram(InitialModel(ctx, coord), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return errors.Wrap(err, "report viewer")
}
