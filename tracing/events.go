package tracing

import (
	"errors"
	"regexp"
	"time"

	"authcheck-cli/testreport"
)

// Event types
const (
	TypeRun   = "run"
	TypeCase  = "case"
	TypeError = "error"
)

// Run phases
const (
	PhaseStarted  = "started"
	PhaseFinished = "finished"
)

// BaseEvent carries the fields shared by all events
type BaseEvent struct {
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
}

// EventType returns the type identifier for this event
func (b BaseEvent) EventType() string {
	return b.Type
}

// Timestamp returns when this event occurred
func (b BaseEvent) Timestamp() time.Time {
	return b.CreatedAt
}

// RunEvent marks the start or end of a run
type RunEvent struct {
	BaseEvent
	RunID    string             `json:"run_id"`
	Phase    string             `json:"phase"`
	Total    int                `json:"total"`
	Counts   *testreport.Counts `json:"counts,omitempty"`
	Duration float64            `json:"duration,omitempty"`
}

// NewRunEvent creates a run event at the given time
func NewRunEvent(sessionID, runID, phase string, at time.Time) *RunEvent {
	return &RunEvent{
		BaseEvent: BaseEvent{Type: TypeRun, CreatedAt: at, SessionID: sessionID},
		RunID:     runID,
		Phase:     phase,
	}
}

// Validate ensures the event data is complete and valid
func (r *RunEvent) Validate() error {
	if r.RunID == "" {
		return errors.New("run id is required")
	}
	if r.Phase != PhaseStarted && r.Phase != PhaseFinished {
		return errors.New("phase must be started or finished")
	}
	return nil
}

// Sanitize returns the event unchanged
func (r *RunEvent) Sanitize() Event {
	sanitized := *r
	return &sanitized
}

// CaseEvent records the outcome of one case
type CaseEvent struct {
	BaseEvent
	RunID    string            `json:"run_id"`
	Name     string            `json:"name"`
	Group    string            `json:"group"`
	Status   testreport.Status `json:"status"`
	Duration float64           `json:"duration"`
	Message  string            `json:"message,omitempty"`
}

// NewCaseEvent creates an event from a result
func NewCaseEvent(sessionID, runID string, res testreport.Result, at time.Time) *CaseEvent {
	return &CaseEvent{
		BaseEvent: BaseEvent{Type: TypeCase, CreatedAt: at, SessionID: sessionID},
		RunID:     runID,
		Name:      res.Name,
		Group:     res.Group,
		Status:    res.Status,
		Duration:  res.Duration,
		Message:   res.Message,
	}
}

// Validate ensures the event data is complete and valid
func (c *CaseEvent) Validate() error {
	if c.Name == "" {
		return errors.New("case name is required")
	}
	if _, err := testreport.ParseStatus(string(c.Status)); err != nil {
		return err
	}
	return nil
}

// Sanitize masks credentials that leaked into the message
func (c *CaseEvent) Sanitize() Event {
	sanitized := *c
	sanitized.Message = redact(c.Message)
	return &sanitized
}

// ErrorEvent records a failure outside of any case
type ErrorEvent struct {
	BaseEvent
	Error     string `json:"error"`
	Component string `json:"component,omitempty"`
}

// NewErrorEvent creates a new error event
func NewErrorEvent(sessionID, errorMsg, component string) *ErrorEvent {
	return &ErrorEvent{
		BaseEvent: BaseEvent{Type: TypeError, CreatedAt: time.Now(), SessionID: sessionID},
		Error:     errorMsg,
		Component: component,
	}
}

// Validate ensures the event data is complete and valid
func (e *ErrorEvent) Validate() error {
	if e.Error == "" {
		return errors.New("error message is required")
	}
	return nil
}

// Sanitize masks credentials in the message
func (e *ErrorEvent) Sanitize() Event {
	sanitized := *e
	sanitized.Error = redact(e.Error)
	return &sanitized
}

var sensitivePattern = regexp.MustCompile(`(?i)\b(password|token|secret|key|apikey)=[^&\s]+`)

// redact replaces the value of key=value credentials
func redact(msg string) string {
	return sensitivePattern.ReplaceAllString(msg, "$1=[REDACTED]")
}
