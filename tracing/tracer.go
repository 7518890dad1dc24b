// Package tracing keeps a local journal of test runs as JSON session files.
package tracing

import (
	"time"
)

// Tracer records journal events
type Tracer interface {
	// TrackEvent buffers an event, flushing when the buffer is full
	TrackEvent(event Event) error

	// Flush writes pending events to a session file
	Flush() error

	// Close flushes and prunes old session files
	Close() error
}

// Event is a single journal entry
type Event interface {
	EventType() string
	Timestamp() time.Time
	Validate() error
	// Sanitize returns a copy safe to write to disk
	Sanitize() Event
}

// SessionInfo describes the process that wrote a journal file
type SessionInfo struct {
	ID        string    `json:"session_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time,omitempty"`
	Platform  string    `json:"platform"`
	Version   string    `json:"version"`
}

// EventBatch is the content of one session file
type EventBatch struct {
	Session SessionInfo `json:"session"`
	Events  []Event     `json:"events"`
}

// Config holds configuration for the journal
type Config struct {
	Enabled       bool
	Dir           string
	MaxSessions   int
	MaxBufferSize int
}

// DefaultMaxBufferSize bounds the events kept in memory between flushes
const DefaultMaxBufferSize = 500

// NoOpTracer discards all events
type NoOpTracer struct{}

func (n *NoOpTracer) TrackEvent(event Event) error { return nil }
func (n *NoOpTracer) Flush() error                 { return nil }
func (n *NoOpTracer) Close() error                 { return nil }

// NewNoOpTracer creates a tracer that discards all events
func NewNoOpTracer() Tracer {
	return &NoOpTracer{}
}

// NewTracer returns a LocalTracer when enabled, a NoOpTracer otherwise
func NewTracer(config Config, version string) (Tracer, error) {
	if !config.Enabled {
		return NewNoOpTracer(), nil
	}
	return NewLocalTracer(config, version)
}
