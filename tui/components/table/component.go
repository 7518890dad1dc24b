package table

import (
	tea "github.com/charmbracelet/bubbletea"
	btable "github.com/evertras/bubble-table/table"

	"authcheck-cli/testreport"
)

// Component is the per-group statistics table
type Component struct {
	table   btable.Model
	focused bool
}

// New creates a new table component with default styling
func New() *Component {
	columns := []btable.Column{
		btable.NewColumn("group", "Group", 24),
		btable.NewColumn("passed", "Passed", 8),
		btable.NewColumn("failed", "Failed", 8),
		btable.NewColumn("errors", "Errors", 8),
		btable.NewColumn("skipped", "Skipped", 8),
	}
	return &Component{table: btable.New(columns)}
}

// SetStats replaces the rows, one per group in first-appearance order
func (c *Component) SetStats(stats testreport.GroupStats) {
	var rows []btable.Row
	for _, name := range stats.Names() {
		counts, _ := stats.Get(name)
		rows = append(rows, btable.NewRow(btable.RowData{
			"group":   name,
			"passed":  counts.Passed,
			"failed":  counts.Failed,
			"errors":  counts.Errors,
			"skipped": counts.Skipped,
		}))
	}
	c.table = c.table.WithRows(rows).Focused(c.focused)
}

// SetFocused sets whether the table receives navigation keys
func (c *Component) SetFocused(focused bool) {
	c.focused = focused
	c.table = c.table.Focused(focused)
}

// HighlightedGroup returns the group under the cursor, empty when there are no rows
func (c *Component) HighlightedGroup() string {
	row := c.table.HighlightedRow()
	if row.Data == nil {
		return ""
	}
	name, _ := row.Data["group"].(string)
	return name
}

// Update handles Bubble Tea messages
func (c *Component) Update(msg tea.Msg) (*Component, tea.Cmd) {
	var cmd tea.Cmd
	c.table, cmd = c.table.Update(msg)
	return c, cmd
}

// View renders the table
func (c *Component) View() string {
	return c.table.View()
}
