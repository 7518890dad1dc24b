package testreport

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Status is the classification of a single executed test case
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusErrored Status = "errors"
	StatusSkipped Status = "skipped"
)

// Statuses lists every status in report order
var Statuses = []Status{StatusPassed, StatusFailed, StatusErrored, StatusSkipped}

// ParseStatus converts the persisted vocabulary back into a Status
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPassed, StatusFailed, StatusErrored, StatusSkipped:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown test status %q", s)
}

// UnmarshalJSON rejects statuses outside the four-way vocabulary
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Result is the recorded outcome of running one test case
type Result struct {
	Name     string  `json:"name"`
	Group    string  `json:"group"`
	Status   Status  `json:"status"`
	Duration float64 `json:"duration"` // seconds
	Message  string  `json:"message"`
}

// Elapsed returns the case duration as a time.Duration
func (r Result) Elapsed() time.Duration {
	return secondsToDuration(r.Duration)
}

// Counts holds one counter per status
type Counts struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errors  int `json:"errors"`
	Skipped int `json:"skipped"`
}

// Add increments the counter matching the status
func (c *Counts) Add(status Status) {
	switch status {
	case StatusPassed:
		c.Passed++
	case StatusFailed:
		c.Failed++
	case StatusErrored:
		c.Errors++
	case StatusSkipped:
		c.Skipped++
	}
}

// Of returns the counter matching the status
func (c Counts) Of(status Status) int {
	switch status {
	case StatusPassed:
		return c.Passed
	case StatusFailed:
		return c.Failed
	case StatusErrored:
		return c.Errors
	case StatusSkipped:
		return c.Skipped
	}
	return 0
}

// Sum returns the total of all four counters
func (c Counts) Sum() int {
	return c.Passed + c.Failed + c.Errors + c.Skipped
}

// Stats is the aggregated view of a run
type Stats struct {
	Total int `json:"total"`
	Counts
	Duration float64    `json:"duration"` // wall-clock seconds of the whole run
	PerGroup GroupStats `json:"per_group"`
}

// Report bundles everything produced by one run. It is never mutated after construction.
type Report struct {
	Results    []Result `json:"results"`
	Stats      Stats    `json:"stats"`
	StartedAt  float64  `json:"started_at"`  // unix seconds
	FinishedAt float64  `json:"finished_at"` // unix seconds
}

// NewReport aggregates the results of a run that spanned started..finished
func NewReport(results []Result, started, finished time.Time) *Report {
	if finished.Before(started) {
		finished = started
	}
	if results == nil {
		results = []Result{}
	}

	startedAt := unixSeconds(started)
	finishedAt := unixSeconds(finished)
	if finishedAt < startedAt {
		finishedAt = startedAt
	}

	return &Report{
		Results:    results,
		Stats:      Aggregate(results, finished.Sub(started)),
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}
}

// Started returns the run start as a time.Time
func (r *Report) Started() time.Time {
	return fromUnixSeconds(r.StartedAt)
}

// Finished returns the run end as a time.Time
func (r *Report) Finished() time.Time {
	return fromUnixSeconds(r.FinishedAt)
}

// Summary renders the one-line count summary used by the CLI and TUI
func (r *Report) Summary() string {
	s := r.Stats
	return fmt.Sprintf("Total: %d | Passed: %d | Errors: %d | Failed: %d | Skipped: %d",
		s.Total, s.Passed, s.Errors, s.Failed, s.Skipped)
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func fromUnixSeconds(s float64) time.Time {
	sec, frac := math.Modf(s)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
