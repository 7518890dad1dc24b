package testrunner

import (
	"context"
	"sync"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"authcheck-cli/testreport"
)

// Coordinator serializes full runs: build cases, execute, persist, notify observers.
// Runs triggered from the CLI and the web surface never interleave their writes.
type Coordinator struct {
	runner    *Runner
	registry  Registry
	store     testreport.Store
	observers []ReportObserver
	fileLock  *flock.Flock
	mu        sync.Mutex
	log       zerolog.Logger
}

// CoordinatorOption customizes a Coordinator
type CoordinatorOption func(*Coordinator)

// WithObservers registers observers notified after every saved report
func WithObservers(observers ...ReportObserver) CoordinatorOption {
	return func(c *Coordinator) {
		c.observers = append(c.observers, observers...)
	}
}

// WithLockFile guards runs with an exclusive file lock, serializing separate processes too
func WithLockFile(path string) CoordinatorOption {
	return func(c *Coordinator) {
		if path != "" {
			c.fileLock = flock.New(path)
		}
	}
}

// NewCoordinator wires a runner, a registry and a store together
func NewCoordinator(runner *Runner, registry Registry, store testreport.Store, logger zerolog.Logger, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		runner:   runner,
		registry: registry,
		store:    store,
		log:      logger.With().Str("component", "coordinator").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Trigger performs one full run. Only registry and store failures are returned.
func (c *Coordinator) Trigger(ctx context.Context) (*testreport.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fileLock != nil {
		if err := c.fileLock.Lock(); err != nil {
			return nil, errors.Wrapf(err, "failed to acquire run lock %s", c.fileLock.Path())
		}
		defer func() {
			if err := c.fileLock.Unlock(); err != nil {
				c.log.Warn().Err(err).Msg("failed to release run lock")
			}
		}()
	}

	cases, err := c.registry.Cases()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build test cases")
	}

	report := c.runner.Run(ctx, cases)

	if err := c.store.Save(report); err != nil {
		c.log.Error().Err(err).Msg("failed to save report")
		for _, observer := range c.observers {
			if so, ok := observer.(StoreErrorObserver); ok {
				so.ObserveStoreError(err)
			}
		}
		return nil, err
	}

	for _, observer := range c.observers {
		if err := observer.ObserveReport(ctx, report); err != nil {
			c.log.Warn().Err(err).Msg("report observer failed")
		}
	}

	return report, nil
}

// Latest returns the last persisted report without running anything
func (c *Coordinator) Latest() (*testreport.Report, error) {
	return c.store.LoadLatest()
}
