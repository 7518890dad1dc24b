package testrunner

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"authcheck-cli/testreport"
)

// Runner executes cases one after another and produces a report.
// It has no preemption: a unit that never returns blocks the run.
type Runner struct {
	timeout time.Duration
	log     zerolog.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

// NewRunner creates a runner with the given soft per-case budget.
// A non-positive timeout falls back to DefaultTimeout.
func NewRunner(timeout time.Duration, logger zerolog.Logger) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{
		timeout: timeout,
		log:     logger.With().Str("component", "runner").Logger(),
		tracer:  otel.Tracer("authcheck test runner"),
		now:     time.Now,
	}
}

// Timeout returns the soft per-case budget
func (r *Runner) Timeout() time.Duration {
	return r.timeout
}

// Run executes every case in order and aggregates the results.
// Faults inside units are recorded, never propagated.
func (r *Runner) Run(ctx context.Context, cases []Case) *testreport.Report {
	ctx, span := r.tracer.Start(ctx, "run")
	defer span.End()

	started := r.now()
	results := make([]testreport.Result, 0, len(cases))
	for _, tc := range cases {
		results = append(results, r.runCase(ctx, tc))
	}
	finished := r.now()

	report := testreport.NewReport(results, started, finished)
	span.SetAttributes(
		attribute.Int("tests.total", report.Stats.Total),
		attribute.Int("tests.passed", report.Stats.Passed),
		attribute.Int("tests.failed", report.Stats.Failed),
		attribute.Int("tests.errors", report.Stats.Errors),
		attribute.Int("tests.skipped", report.Stats.Skipped),
	)

	r.log.Info().
		Int("total", report.Stats.Total).
		Int("passed", report.Stats.Passed).
		Int("failed", report.Stats.Failed).
		Int("errors", report.Stats.Errors).
		Int("skipped", report.Stats.Skipped).
		Float64("duration", report.Stats.Duration).
		Msg("run finished")

	return report
}

func (r *Runner) runCase(ctx context.Context, tc Case) testreport.Result {
	_, span := r.tracer.Start(ctx, fmt.Sprintf("test %s", tc.Name),
		trace.WithAttributes(attribute.String("test.group", tc.Group)))
	defer span.End()

	start := time.Now()
	err := invoke(tc.Unit)
	elapsed := time.Since(start)

	outcome := applyTimeout(Classify(err), elapsed, r.timeout)

	span.SetAttributes(attribute.String("test.status", string(outcome.Status)))
	if outcome.Status == testreport.StatusErrored || outcome.Status == testreport.StatusFailed {
		span.SetStatus(codes.Error, outcome.Message)
	}

	r.log.Debug().
		Str("name", tc.Name).
		Str("group", tc.Group).
		Str("status", string(outcome.Status)).
		Dur("elapsed", elapsed).
		Str("message", outcome.Message).
		Msg("case finished")

	return testreport.Result{
		Name:     tc.Name,
		Group:    tc.Group,
		Status:   outcome.Status,
		Duration: elapsed.Seconds(),
		Message:  outcome.Message,
	}
}

// invoke calls the unit, turning a panic into an error
func invoke(unit Unit) (err error) {
	if unit == nil {
		return fmt.Errorf("test case has no executable unit")
	}
	defer func() {
		if v := recover(); v != nil {
			err = recoveredError(v)
		}
	}()
	return unit()
}
