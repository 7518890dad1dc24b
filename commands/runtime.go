package commands

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"authcheck-cli/config"
	"authcheck-cli/metrics"
	"authcheck-cli/publish"
	"authcheck-cli/scenarios"
	"authcheck-cli/suite"
	"authcheck-cli/testreport"
	"authcheck-cli/testrunner"
	"authcheck-cli/tracing"
)

// Runtime holds everything a command needs, built once from the configuration
type Runtime struct {
	Config      config.Config
	Log         zerolog.Logger
	Coordinator *testrunner.Coordinator
	Gatherer    prometheus.Gatherer

	closers []func() error
}

func setup(c *cli.Context, version string, logOut io.Writer) (*Runtime, error) {
	manager := config.NewConfigManager(c.String(ConfigFlag.Name))
	cfg, err := manager.Load(config.Overrides{
		ReportPath: c.String(ReportFlag.Name),
		SuiteFile:  c.String(SuiteFlag.Name),
		LogLevel:   c.String(LogLevelFlag.Name),
		Listen:     c.String(ListenFlag.Name),
	})
	if err != nil {
		return nil, err
	}
	logger, err := NewLogger(cfg.LogLevel, logOut)
	if err != nil {
		return nil, err
	}
	return NewRuntime(cfg, version, logger)
}

// NewLogger creates the console logger used by every command
func NewLogger(level string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), errors.Wrapf(err, "invalid log level %q", level)
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000", NoColor: w != os.Stderr}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// NewRuntime opens the store and wires the coordinator with its observers
func NewRuntime(cfg config.Config, version string, logger zerolog.Logger) (*Runtime, error) {
	rt := &Runtime{Config: cfg, Log: logger}

	// the run lock sits next to the report and needs the directory before any run
	if err := os.MkdirAll(filepath.Dir(cfg.LockPath()), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create report directory")
	}

	store, err := rt.openStore()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	rt.Gatherer = reg
	observers := []testrunner.ReportObserver{metrics.New(reg, logger)}

	journal, err := tracing.NewManager(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Dir:         cfg.Tracing.Dir,
		MaxSessions: cfg.Tracing.MaxSessions,
	}, version, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.closers = append(rt.closers, journal.Close)
	observers = append(observers, journal)

	if cfg.Publish.Enabled {
		inserter, err := publish.NewSupabaseInserter(cfg.Publish.URL, cfg.Publish.Key)
		if err != nil {
			rt.Close()
			return nil, err
		}
		observers = append(observers, publish.NewPublisher(inserter, cfg.Publish.Table, logger))
	}

	rt.Coordinator = testrunner.NewCoordinator(
		testrunner.NewRunner(cfg.CaseTimeout, logger),
		registryFor(cfg),
		store,
		logger,
		testrunner.WithObservers(observers...),
		testrunner.WithLockFile(cfg.LockPath()),
	)
	return rt, nil
}

func (rt *Runtime) openStore() (testreport.Store, error) {
	if rt.Config.StoreBackend != config.BackendBadger {
		return testreport.NewFileStore(rt.Config.ReportPath), nil
	}
	store, err := testreport.OpenBadgerStore(rt.Config.BadgerDir)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, store.Close)
	return store, nil
}

func registryFor(cfg config.Config) testrunner.Registry {
	if cfg.SuiteFile == "" {
		return scenarios.Registry()
	}
	return suite.Registry(cfg.SuiteFile)
}

// Close releases the store and flushes the journal, newest resources first
func (rt *Runtime) Close() error {
	var first error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.Log.Warn().Err(err).Msg("failed to close resource")
			if first == nil {
				first = err
			}
		}
	}
	rt.closers = nil
	return first
}
