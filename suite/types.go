// Package suite loads command based test suites from YAML files
package suite

import "time"

type (
	// Group is a named list of entries. Groups sharing a name are merged.
	Group struct {
		Name    string  `yaml:"name"`
		Entries []Entry `yaml:"entries"`
	}

	// Entry runs one command and checks its outcome
	Entry struct {
		Name    string   `yaml:"name"`
		Command string   `yaml:"command"`
		WorkDir string   `yaml:"workdir,omitempty"`
		Stdin   string   `yaml:"stdin,omitempty"`
		EnvVars []string `yaml:"env,omitempty"`

		// Skip marks the entry as skipped. Its value is the reason, "true" skips without one.
		Skip string `yaml:"skip,omitempty"`

		StdoutHas    []string `yaml:"stdout_has,omitempty"`
		StdoutNotHas []string `yaml:"stdout_not_has,omitempty"`
		StderrHas    []string `yaml:"stderr_has,omitempty"`
		// NoRegex switches output expectations to plain substring matching.
		NoRegex bool `yaml:"noregex,omitempty"`

		IgnoreExitCode bool `yaml:"ignore_exit_code,omitempty"`

		// Timeout kills the command once exceeded. It is independent of the soft per-case limit.
		Timeout time.Duration `yaml:"timeout,omitempty"`
	}
)

const skipWithoutReason = "true"
