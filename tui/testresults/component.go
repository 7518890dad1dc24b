package testresults

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"authcheck-cli/testreport"
)

var (
	groupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffaa00")).
				Background(lipgloss.Color("#2a2a2a")).
				Padding(0, 1)

	groupDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#444444")).
				Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#00aa00")).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#aaaaaa")).
			Italic(true)

	statusStyles = map[testreport.Status]lipgloss.Style{
		testreport.StatusPassed:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00aa00")),
		testreport.StatusFailed:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff0000")),
		testreport.StatusErrored: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff8800")),
		testreport.StatusSkipped: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#888888")),
	}

	badges = map[testreport.Status]string{
		testreport.StatusPassed:  "[PASS]",
		testreport.StatusFailed:  "[FAIL]",
		testreport.StatusErrored: "[ERR ]",
		testreport.StatusSkipped: "[SKIP]",
	}
)

const divider = "────────────────────────────────────────"

// TestResultsComponent shows the results of a report grouped by group, with expandable messages
type TestResultsComponent struct {
	help help.Model

	report        *testreport.Report
	displayItems  []DisplayItem
	selectedIndex int
	expandedTests map[string]bool

	visibleStart int
	listHeight   int
}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Toggle   key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Expand: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "expand"),
	),
	Collapse: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "collapse"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter/space", "toggle"),
	),
}

// New creates a new test results component
func New() *TestResultsComponent {
	return &TestResultsComponent{
		help:          help.New(),
		expandedTests: make(map[string]bool),
		listHeight:    10,
	}
}

// Init initializes the component
func (c *TestResultsComponent) Init() tea.Cmd {
	return nil
}

// SetReport replaces the displayed report. Expansion state survives for cases with the same name.
func (c *TestResultsComponent) SetReport(report *testreport.Report) {
	c.report = report
	c.buildItems()
	c.ensureValidSelection()
}

// SetHeight sets the number of lines available for the list
func (c *TestResultsComponent) SetHeight(height int) {
	c.listHeight = max(1, height)
	if c.visibleStart > len(c.displayItems)-c.listHeight {
		c.visibleStart = max(0, len(c.displayItems)-c.listHeight)
	}
}

// SelectedResult returns the highlighted result, nil when the list is empty
func (c *TestResultsComponent) SelectedResult() *testreport.Result {
	if c.selectedIndex >= 0 && c.selectedIndex < len(c.displayItems) {
		item := c.displayItems[c.selectedIndex]
		if item.Type == ItemTypeTest && item.Test != nil {
			return &item.Test.Result
		}
	}
	return nil
}

// JumpToGroup selects the first case of the group
func (c *TestResultsComponent) JumpToGroup(group string) {
	for i, item := range c.displayItems {
		if item.Type == ItemTypeTest && item.Test.Result.Group == group {
			c.selectIndex(i)
			return
		}
	}
}

// Update handles key messages
func (c *TestResultsComponent) Update(msg tea.Msg) (*TestResultsComponent, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Up):
		c.navigate(-1)
	case key.Matches(keyMsg, keys.Down):
		c.navigate(1)
	case key.Matches(keyMsg, keys.Expand):
		c.setExpanded(func(bool) bool { return true })
	case key.Matches(keyMsg, keys.Collapse):
		c.setExpanded(func(bool) bool { return false })
	case key.Matches(keyMsg, keys.Toggle):
		c.setExpanded(func(cur bool) bool { return !cur })
	}
	return c, nil
}

// View renders the visible part of the list
func (c *TestResultsComponent) View() string {
	if c.report == nil {
		return "No test results available"
	}
	if len(c.displayItems) == 0 {
		return "The last run contained no cases"
	}

	end := min(c.visibleStart+c.listHeight, len(c.displayItems))
	var b strings.Builder
	for i := c.visibleStart; i < end; i++ {
		item := c.displayItems[i]
		switch item.Type {
		case ItemTypeGroupHeader:
			b.WriteString(formatGroupHeader(item.Group))
			b.WriteString("\n")
		case ItemTypeTest:
			line := formatTestLine(*item.Test)
			if item.Selected {
				line = selectedStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
			if item.Test.Expanded && item.Test.Result.Message != "" {
				b.WriteString(messageStyle.Render("    " + item.Test.Result.Message))
				b.WriteString("\n")
			}
		case ItemTypeDivider:
			b.WriteString(groupDividerStyle.Render(divider))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// HelpView renders the key help of the list
func (c *TestResultsComponent) HelpView() string {
	return c.help.View(keys)
}

func (c *TestResultsComponent) buildItems() {
	c.displayItems = nil
	if c.report == nil {
		return
	}

	byGroup := make(map[string][]testreport.Result)
	for _, res := range c.report.Results {
		byGroup[res.Group] = append(byGroup[res.Group], res)
	}

	groups := c.report.Stats.PerGroup.Names()
	for gi, name := range groups {
		counts, _ := c.report.Stats.PerGroup.Get(name)
		header := &GroupHeaderItem{Name: name, Counts: counts}
		for _, res := range byGroup[name] {
			header.Time += res.Duration
		}
		c.displayItems = append(c.displayItems, DisplayItem{Type: ItemTypeGroupHeader, Group: header})

		for _, res := range byGroup[name] {
			c.displayItems = append(c.displayItems, DisplayItem{
				Type: ItemTypeTest,
				Test: &TestResultItem{Result: res, Expanded: c.expandedTests[res.Name]},
			})
		}
		if gi < len(groups)-1 {
			c.displayItems = append(c.displayItems, DisplayItem{Type: ItemTypeDivider})
		}
	}

	if c.selectedIndex >= 0 && c.selectedIndex < len(c.displayItems) {
		c.displayItems[c.selectedIndex].Selected = c.displayItems[c.selectedIndex].Type == ItemTypeTest
	}
}

// ensureValidSelection moves the selection onto a test item
func (c *TestResultsComponent) ensureValidSelection() {
	if c.selectedIndex >= 0 && c.selectedIndex < len(c.displayItems) &&
		c.displayItems[c.selectedIndex].Type == ItemTypeTest {
		return
	}
	for i, item := range c.displayItems {
		if item.Type == ItemTypeTest {
			c.selectIndex(i)
			return
		}
	}
	c.selectedIndex = 0
	c.visibleStart = 0
}

func (c *TestResultsComponent) navigate(step int) {
	for i := c.selectedIndex + step; i >= 0 && i < len(c.displayItems); i += step {
		if c.displayItems[i].Type == ItemTypeTest {
			c.selectIndex(i)
			return
		}
	}
}

func (c *TestResultsComponent) selectIndex(index int) {
	c.selectedIndex = index
	if index < c.visibleStart {
		c.visibleStart = index
	}
	if index >= c.visibleStart+c.listHeight {
		c.visibleStart = index - c.listHeight + 1
	}
	c.buildItems()
}

func (c *TestResultsComponent) setExpanded(next func(bool) bool) {
	res := c.SelectedResult()
	if res == nil || res.Message == "" {
		return
	}
	c.expandedTests[res.Name] = next(c.expandedTests[res.Name])
	c.buildItems()
}

func formatGroupHeader(group *GroupHeaderItem) string {
	header := groupHeaderStyle.Render(group.Name)
	stats := fmt.Sprintf("(%d passed, %d failed, %d errors, %d skipped, %.2fs)",
		group.Counts.Passed, group.Counts.Failed, group.Counts.Errors, group.Counts.Skipped, group.Time)
	return header + " " + stats
}

func formatTestLine(item TestResultItem) string {
	result := item.Result
	status := statusStyles[result.Status].Render(badges[result.Status])

	expansion := ""
	if result.Message != "" {
		expansion = " [+]"
		if item.Expanded {
			expansion = " [-]"
		}
	}
	return fmt.Sprintf("%s  %s%s  (%.3fs)", status, result.Name, expansion, result.Duration)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Expand, k.Collapse, k.Toggle}}
}
