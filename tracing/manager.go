package tracing

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"authcheck-cli/testreport"
)

// Manager turns reports into journal events
type Manager struct {
	tracer    Tracer
	sessionID string
	log       zerolog.Logger
	mu        sync.Mutex
	closed    bool
}

// NewManager creates a manager over a tracer built from config
func NewManager(config Config, version string, logger zerolog.Logger) (*Manager, error) {
	tracer, err := NewTracer(config, version)
	if err != nil {
		return nil, err
	}
	return NewManagerWithTracer(tracer, logger), nil
}

// NewManagerWithTracer wraps an existing tracer
func NewManagerWithTracer(tracer Tracer, logger zerolog.Logger) *Manager {
	sessionID := "disabled"
	if local, ok := tracer.(*LocalTracer); ok {
		sessionID = local.SessionID()
	}
	return &Manager{
		tracer:    tracer,
		sessionID: sessionID,
		log:       logger.With().Str("component", "journal").Logger(),
	}
}

// ObserveReport journals one run: a started event, one event per case, a finished event
func (m *Manager) ObserveReport(ctx context.Context, report *testreport.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}

	runID := uuid.New().String()
	started := NewRunEvent(m.sessionID, runID, PhaseStarted, report.Started())
	started.Total = report.Stats.Total
	if err := m.tracer.TrackEvent(started); err != nil {
		return err
	}

	at := report.Started()
	for _, res := range report.Results {
		at = at.Add(res.Elapsed())
		if err := m.tracer.TrackEvent(NewCaseEvent(m.sessionID, runID, res, at)); err != nil {
			return err
		}
	}

	finished := NewRunEvent(m.sessionID, runID, PhaseFinished, report.Finished())
	finished.Total = report.Stats.Total
	counts := report.Stats.Counts
	finished.Counts = &counts
	finished.Duration = report.Stats.Duration
	if err := m.tracer.TrackEvent(finished); err != nil {
		return err
	}

	m.log.Debug().Str("run_id", runID).Int("events", len(report.Results)+2).Msg("run journaled")
	return m.tracer.Flush()
}

// ObserveStoreError journals a failed report save
func (m *Manager) ObserveStoreError(err error) {
	m.TrackError(err, "store")
}

// TrackError journals a failure outside of any case
func (m *Manager) TrackError(err error, component string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || err == nil {
		return
	}
	if trackErr := m.tracer.TrackEvent(NewErrorEvent(m.sessionID, err.Error(), component)); trackErr != nil {
		m.log.Warn().Err(trackErr).Msg("could not journal error")
	}
}

// SessionID identifies the journal files of this process
func (m *Manager) SessionID() string {
	return m.sessionID
}

// Close flushes pending events and prunes old sessions
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	return m.tracer.Close()
}
