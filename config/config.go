package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no --config flag is given
const DefaultFile = "authcheck.yml"

// Store backends
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Config represents the application configuration
type Config struct {
	ReportPath   string        `yaml:"report_path"`
	StoreBackend string        `yaml:"store_backend"`
	BadgerDir    string        `yaml:"badger_dir"`
	CaseTimeout  time.Duration `yaml:"case_timeout"`
	Listen       string        `yaml:"listen"`
	LogLevel     string        `yaml:"log_level"`
	SuiteFile    string        `yaml:"suite_file,omitempty"`
	Tracing      TracingConfig `yaml:"tracing"`
	Publish      PublishConfig `yaml:"publish"`
}

// TracingConfig controls the local run journal
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Dir         string `yaml:"dir"`
	MaxSessions int    `yaml:"max_sessions"`
}

// PublishConfig controls uploading reports. Credentials only come from the environment.
type PublishConfig struct {
	Enabled bool   `yaml:"enabled"`
	Table   string `yaml:"table"`
	URL     string `yaml:"-"`
	Key     string `yaml:"-"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		ReportPath:   filepath.Join("reports", "last_results.json"),
		StoreBackend: BackendFile,
		BadgerDir:    filepath.Join("reports", "badger"),
		CaseTimeout:  time.Second,
		Listen:       ":8080",
		LogLevel:     "info",
		Tracing: TracingConfig{
			Dir:         filepath.Join("reports", "traces"),
			MaxSessions: 10,
		},
		Publish: PublishConfig{
			Table: "test_reports",
		},
	}
}

// LockPath is the file lock guarding report writes
func (c Config) LockPath() string {
	return c.ReportPath + ".lock"
}

// Validate rejects settings the application cannot run with
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendFile, BackendBadger:
	default:
		return errors.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.CaseTimeout <= 0 {
		return errors.Errorf("case timeout must be positive, got %s", c.CaseTimeout)
	}
	if c.ReportPath == "" {
		return errors.New("report path must not be empty")
	}
	if c.Tracing.Enabled && c.Tracing.MaxSessions < 1 {
		return errors.New("tracing.max_sessions must be at least 1")
	}
	return nil
}

// readConfig overlays the file onto the defaults. A missing file yields the defaults.
func readConfig(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "cannot read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

// writeConfig writes the configuration to path
func writeConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
