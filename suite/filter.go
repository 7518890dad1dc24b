package suite

import (
	"regexp"
	"strings"
)

// Level categorizes the importance of an output line
type Level int

const (
	LevelNoise   Level = iota // progress bars, build steps
	LevelInfo                 // general information
	LevelTask                 // build/test tasks
	LevelError                // errors and warnings
	LevelSuccess              // success messages
)

// OutputFilter picks the meaningful lines out of command output
type OutputFilter struct {
	noisePatterns      []*regexp.Regexp
	meaningfulPatterns []*regexp.Regexp
	errorWords         []string
	successWords       []string
}

// NewOutputFilter creates a filter with predefined patterns
func NewOutputFilter() *OutputFilter {
	return &OutputFilter{
		noisePatterns: []*regexp.Regexp{
			regexp.MustCompile(`^#\d+`),                    // docker build steps
			regexp.MustCompile(`CACHED|DONE \d+\.\d+s`),    // docker layer status
			regexp.MustCompile(`^\s*\d+%|\[=*>?\s*\]`),     // progress indicators
			regexp.MustCompile(`^(Downloading|Fetching)`), // dependency fetching
		},
		meaningfulPatterns: []*regexp.Regexp{
			regexp.MustCompile(`> Task :`),
			regexp.MustCompile(`BUILD (SUCCESSFUL|FAILED)`),
			regexp.MustCompile(`exited with code|exit status \d+`),
		},
		errorWords: []string{
			"ERROR", "FAILED", "FAIL", "EXCEPTION", "FATAL", "PANIC", "CRITICAL", "TRACEBACK",
		},
		successWords: []string{
			"BUILD SUCCESSFUL", "PASSED", "SUCCESS", "COMPLETED SUCCESSFULLY",
		},
	}
}

// Categorize determines the level of a line
func (f *OutputFilter) Categorize(line string) Level {
	upper := strings.ToUpper(line)

	// errors first
	for _, word := range f.errorWords {
		if strings.Contains(upper, word) {
			return LevelError
		}
	}
	for _, word := range f.successWords {
		if strings.Contains(upper, word) {
			return LevelSuccess
		}
	}
	for _, pattern := range f.meaningfulPatterns {
		if pattern.MatchString(line) {
			return LevelTask
		}
	}
	for _, pattern := range f.noisePatterns {
		if pattern.MatchString(line) {
			return LevelNoise
		}
	}
	return LevelInfo
}

// Summarize returns the most relevant line of output: the first error line, otherwise the
// last line that is not noise. Empty output yields an empty string.
func (f *OutputFilter) Summarize(output string) string {
	var last string
	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch f.Categorize(line) {
		case LevelError:
			return line
		case LevelNoise:
			continue
		}
		last = line
	}
	return last
}
