package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authcheck-cli/testreport"
)

type fakeCoordinator struct {
	latest   *testreport.Report
	err      error
	triggers int
}

func (f *fakeCoordinator) Trigger(ctx context.Context) (*testreport.Report, error) {
	f.triggers++
	if f.err != nil {
		return nil, f.err
	}
	f.latest = sampleReport()
	return f.latest, nil
}

func (f *fakeCoordinator) Latest() (*testreport.Report, error) {
	if f.latest == nil {
		return nil, testreport.ErrNoReport
	}
	return f.latest, nil
}

func sampleReport() *testreport.Report {
	start := time.Unix(1700000000, 0)
	return testreport.NewReport([]testreport.Result{
		{Name: "Login: success", Group: "Login", Status: testreport.StatusPassed, Duration: 0.01},
		{Name: "Login: wrong password", Group: "Login", Status: testreport.StatusFailed, Duration: 0.02, Message: "expected something"},
		{Name: "Recovery: request", Group: "Recovery", Status: testreport.StatusSkipped, Duration: 1.2, Message: "exceeded the 1.0 s time limit"},
	}, start, start.Add(2*time.Second))
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_InitWithoutReport(t *testing.T) {
	// Arrange
	m := InitialModel(context.Background(), &fakeCoordinator{})

	// Act
	updated, _ := m.Update(m.Init()())

	// Assert
	assert.Contains(t, updated.View(), "No report yet")
}

func TestModel_RerunShowsReport(t *testing.T) {
	coord := &fakeCoordinator{}
	m := InitialModel(context.Background(), coord)

	updated, cmd := m.Update(keyMsg("r"))
	require.NotNil(t, cmd)
	assert.Contains(t, updated.View(), "Running tests...")
	assert.Contains(t, updated.View(), "run in progress")

	updated, _ = updated.Update(cmd())
	view := updated.View()

	assert.Equal(t, 1, coord.triggers)
	assert.Contains(t, view, "Total: 3 | Passed: 1 | Errors: 0 | Failed: 1 | Skipped: 1")
	assert.Contains(t, view, "Login: wrong password [+]")
	assert.Contains(t, view, "Recovery")
}

func TestModel_RerunFailureIsShown(t *testing.T) {
	m := InitialModel(context.Background(), &fakeCoordinator{err: errors.New("disk full")})

	updated, cmd := m.Update(keyMsg("r"))
	updated, _ = updated.Update(cmd())

	assert.Contains(t, updated.View(), "Error: disk full")
}

func TestModel_ExpandMessage(t *testing.T) {
	coord := &fakeCoordinator{latest: sampleReport()}
	var model tea.Model = InitialModel(context.Background(), coord)
	model, _ = model.Update(model.Init()())

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Contains(t, model.View(), "expected something")
}

func TestModel_Quit(t *testing.T) {
	m := InitialModel(context.Background(), &fakeCoordinator{})

	_, cmd := m.Update(keyMsg("q"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
