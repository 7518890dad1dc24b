package tracing

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authcheck-cli/testreport"
)

func sampleReport() *testreport.Report {
	start := time.Unix(1700000000, 0)
	return testreport.NewReport([]testreport.Result{
		{Name: "a", Group: "g", Status: testreport.StatusPassed, Duration: 0.5},
		{Name: "b", Group: "g", Status: testreport.StatusFailed, Duration: 0.25, Message: "bad password=Secret123"},
	}, start, start.Add(time.Second))
}

type journalFile struct {
	Session SessionInfo       `json:"session"`
	Events  []json.RawMessage `json:"events"`
}

func readJournal(t *testing.T, path string) journalFile {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var jf journalFile
	require.NoError(t, json.Unmarshal(data, &jf))
	return jf
}

func TestManager_ObserveReport_WritesSession(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	m, err := NewManager(Config{Enabled: true, Dir: dir, MaxSessions: 5}, "test", zerolog.Nop())
	require.NoError(t, err)

	// Act
	require.NoError(t, m.ObserveReport(context.Background(), sampleReport()))
	require.NoError(t, m.Close())

	// Assert
	files, err := SessionFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	jf := readJournal(t, files[0])
	assert.Equal(t, m.SessionID(), jf.Session.ID)
	require.Len(t, jf.Events, 4)

	var first, last RunEvent
	require.NoError(t, json.Unmarshal(jf.Events[0], &first))
	require.NoError(t, json.Unmarshal(jf.Events[3], &last))
	assert.Equal(t, PhaseStarted, first.Phase)
	assert.Equal(t, PhaseFinished, last.Phase)
	assert.Equal(t, first.RunID, last.RunID)
	require.NotNil(t, last.Counts)
	assert.Equal(t, 1, last.Counts.Failed)

	var failed CaseEvent
	require.NoError(t, json.Unmarshal(jf.Events[2], &failed))
	assert.Equal(t, "bad password=[REDACTED]", failed.Message)
}

func TestManager_TrackError_AfterClose(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(Config{Enabled: true, Dir: dir, MaxSessions: 5}, "test", zerolog.Nop())
	require.NoError(t, err)

	m.ObserveStoreError(errors.New("disk full"))
	require.NoError(t, m.Close())
	m.ObserveStoreError(errors.New("ignored"))
	assert.NoError(t, m.ObserveReport(context.Background(), sampleReport()))

	files, err := SessionFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	jf := readJournal(t, files[0])
	require.Len(t, jf.Events, 1)

	var ev ErrorEvent
	require.NoError(t, json.Unmarshal(jf.Events[0], &ev))
	assert.Equal(t, TypeError, ev.Type)
	assert.Equal(t, "store", ev.Component)
}

func TestLocalTracer_PrunesOldestSessions(t *testing.T) {
	dir := t.TempDir()
	tracer, err := NewLocalTracer(Config{Enabled: true, Dir: dir, MaxSessions: 2}, "test")
	require.NoError(t, err)

	base := time.Unix(1700000000, 0)
	for i := 0; i < 4; i++ {
		require.NoError(t, tracer.TrackEvent(NewErrorEvent(tracer.SessionID(), "e", "test")))
		require.NoError(t, tracer.Flush())
	}
	files, err := SessionFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 4)
	for i, f := range files {
		ts := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(f, ts, ts))
	}

	require.NoError(t, tracer.Close())

	remaining, err := SessionFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, files[2:], remaining)
}

func TestLocalTracer_FlushesWhenBufferIsFull(t *testing.T) {
	dir := t.TempDir()
	tracer, err := NewLocalTracer(Config{Enabled: true, Dir: dir, MaxBufferSize: 2}, "test")
	require.NoError(t, err)

	require.NoError(t, tracer.TrackEvent(NewErrorEvent(tracer.SessionID(), "one", "test")))
	files, _ := SessionFiles(dir)
	assert.Empty(t, files)

	require.NoError(t, tracer.TrackEvent(NewErrorEvent(tracer.SessionID(), "two", "test")))
	files, _ = SessionFiles(dir)
	assert.Len(t, files, 1)
}

func TestEvents_Validate(t *testing.T) {
	assert.Error(t, NewRunEvent("s", "", PhaseStarted, time.Now()).Validate())
	assert.Error(t, NewRunEvent("s", "r", "midway", time.Now()).Validate())
	assert.Error(t, NewErrorEvent("s", "", "x").Validate())
	assert.Error(t, (&CaseEvent{Name: "x", Status: "meh"}).Validate())

	tracer := NewNoOpTracer()
	assert.NoError(t, tracer.TrackEvent(NewErrorEvent("s", "", "x")))
}

func TestNewTracer_Disabled(t *testing.T) {
	tracer, err := NewTracer(Config{Enabled: false}, "test")
	require.NoError(t, err)
	assert.IsType(t, &NoOpTracer{}, tracer)

	m := NewManagerWithTracer(tracer, zerolog.Nop())
	assert.Equal(t, "disabled", m.SessionID())
	assert.NoError(t, m.ObserveReport(context.Background(), sampleReport()))
}
