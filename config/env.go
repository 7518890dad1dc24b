package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Environment variables
const (
	EnvReportPath   = "AUTHCHECK_REPORT_PATH"
	EnvStoreBackend = "AUTHCHECK_STORE_BACKEND"
	EnvListen       = "AUTHCHECK_LISTEN"
	EnvLogLevel     = "AUTHCHECK_LOG_LEVEL"
	EnvSuiteFile    = "AUTHCHECK_SUITE_FILE"
	EnvCaseTimeout  = "AUTHCHECK_CASE_TIMEOUT"
	EnvTracing      = "AUTHCHECK_TRACING"
	EnvSupabaseURL  = "SUPABASE_URL"
	EnvSupabaseKey  = "SUPABASE_KEY"
)

// LoadDotEnv loads variables from a .env file. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "failed to load environment from %s", path)
	}
	return nil
}

// ApplyEnv overrides cfg with values found through lookup
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str(EnvReportPath, &cfg.ReportPath)
	str(EnvStoreBackend, &cfg.StoreBackend)
	str(EnvListen, &cfg.Listen)
	str(EnvLogLevel, &cfg.LogLevel)
	str(EnvSuiteFile, &cfg.SuiteFile)
	str(EnvSupabaseURL, &cfg.Publish.URL)
	str(EnvSupabaseKey, &cfg.Publish.Key)

	if v, ok := lookup(EnvCaseTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvCaseTimeout)
		}
		cfg.CaseTimeout = d
	}
	if v, ok := lookup(EnvTracing); ok && v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvTracing)
		}
		cfg.Tracing.Enabled = enabled
	}
	return nil
}
