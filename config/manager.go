package config

import (
	"os"

	"github.com/pkg/errors"
)

// Overrides carries command line values. Empty fields leave the configuration untouched.
type Overrides struct {
	ReportPath string
	SuiteFile  string
	LogLevel   string
	Listen     string
}

// ConfigManager resolves the effective configuration: defaults, file, .env, environment, flags
type ConfigManager struct {
	path    string
	dotEnv  string
	lookupf func(string) (string, bool)
}

// NewConfigManager creates a manager reading path and the .env file in the working directory
func NewConfigManager(path string) *ConfigManager {
	if path == "" {
		path = DefaultFile
	}
	return &ConfigManager{path: path, dotEnv: ".env", lookupf: os.LookupEnv}
}

// Path is the config file location
func (m *ConfigManager) Path() string {
	return m.path
}

// Load resolves and validates the configuration
func (m *ConfigManager) Load(overrides Overrides) (Config, error) {
	cfg, err := readConfig(m.path)
	if err != nil {
		return cfg, err
	}
	if err := LoadDotEnv(m.dotEnv); err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg, m.lookupf); err != nil {
		return cfg, err
	}

	set := func(v string, dst *string) {
		if v != "" {
			*dst = v
		}
	}
	set(overrides.ReportPath, &cfg.ReportPath)
	set(overrides.SuiteFile, &cfg.SuiteFile)
	set(overrides.LogLevel, &cfg.LogLevel)
	set(overrides.Listen, &cfg.Listen)

	if err := cfg.Validate(); err != nil {
		return cfg, errors.WithMessage(err, "invalid configuration")
	}
	return cfg, nil
}

// WriteDefaults creates the config file with default values. An existing file is kept.
func (m *ConfigManager) WriteDefaults() (bool, error) {
	if _, err := os.Stat(m.path); err == nil {
		return false, nil
	}
	if err := writeConfig(m.path, Default()); err != nil {
		return false, errors.Wrapf(err, "cannot write %s", m.path)
	}
	return true, nil
}
