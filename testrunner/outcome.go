package testrunner

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"authcheck-cli/testreport"
)

const (
	// DefaultTimeout is the soft per-case budget. A passing case that took longer is reported as skipped.
	DefaultTimeout = time.Second

	// DefaultFailureMessage is used when an expectation fails without a message
	DefaultFailureMessage = "expectation was not met"

	// ErrorPrefix is prepended to the description of unexpected faults
	ErrorPrefix = "unexpected error: "
)

// SkipError signals an intentional skip
type SkipError struct {
	Message string
}

func (e *SkipError) Error() string {
	if e.Message == "" {
		return "skipped"
	}
	return "skipped: " + e.Message
}

// FailureError signals a violated expectation
type FailureError struct {
	Message string
}

func (e *FailureError) Error() string {
	if e.Message == "" {
		return DefaultFailureMessage
	}
	return e.Message
}

// Skip returns a signal that marks the case as skipped with an optional reason
func Skip(message string) error {
	return &SkipError{Message: message}
}

// Skipf is Skip with formatting
func Skipf(format string, args ...any) error {
	return &SkipError{Message: fmt.Sprintf(format, args...)}
}

// Fail returns a signal that marks the case as failed
func Fail(message string) error {
	return &FailureError{Message: message}
}

// Failf is Fail with formatting
func Failf(format string, args ...any) error {
	return &FailureError{Message: fmt.Sprintf(format, args...)}
}

// Assert returns a failure signal carrying message when cond is false
func Assert(cond bool, message string) error {
	if cond {
		return nil
	}
	return Fail(message)
}

// Outcome is the classified result of running a unit
type Outcome struct {
	Status  testreport.Status
	Message string
}

// Passed builds a passing outcome
func Passed() Outcome {
	return Outcome{Status: testreport.StatusPassed}
}

// Failed builds a failing outcome, falling back to DefaultFailureMessage
func Failed(message string) Outcome {
	if message == "" {
		message = DefaultFailureMessage
	}
	return Outcome{Status: testreport.StatusFailed, Message: validText(message)}
}

// Errored builds an outcome for an unexpected fault
func Errored(description string) Outcome {
	return Outcome{Status: testreport.StatusErrored, Message: ErrorPrefix + validText(description)}
}

// Skipped builds a skip outcome
func Skipped(message string) Outcome {
	return Outcome{Status: testreport.StatusSkipped, Message: validText(message)}
}

// validText replaces every invalid byte with U+FFFD like the JSON encoder does,
// so a stored report reloads equal to the one in memory
func validText(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return string([]rune(s))
}

// Classify maps what a unit returned onto an Outcome.
// Skip wins over failure, failure wins over any other error.
func Classify(err error) Outcome {
	if err == nil {
		return Passed()
	}

	var skip *SkipError
	if errors.As(err, &skip) {
		return Skipped(skip.Message)
	}

	var failure *FailureError
	if errors.As(err, &failure) {
		return Failed(failure.Message)
	}

	return Errored(err.Error())
}

// applyTimeout downgrades a pass that overran the budget. It never touches other statuses.
func applyTimeout(outcome Outcome, elapsed, limit time.Duration) Outcome {
	if outcome.Status != testreport.StatusPassed || limit <= 0 || elapsed <= limit {
		return outcome
	}
	return Skipped(timeoutMessage(limit))
}

func timeoutMessage(limit time.Duration) string {
	return fmt.Sprintf("exceeded the %.1f s time limit", limit.Seconds())
}

// panicError wraps a recovered panic value that is not itself an error
type panicError struct {
	value any
}

func (p *panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}

func recoveredError(value any) error {
	if err, ok := value.(error); ok {
		return err
	}
	return &panicError{value: value}
}
