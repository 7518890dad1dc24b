package testreport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name       string
		results    []Result
		wantCounts Counts
		wantGroups []string
	}{
		{
			name:       "empty run",
			results:    nil,
			wantCounts: Counts{},
			wantGroups: []string{},
		},
		{
			name: "one of each status",
			results: []Result{
				{Name: "a", Group: "Login", Status: StatusPassed},
				{Name: "b", Group: "Login", Status: StatusFailed},
				{Name: "c", Group: "Register", Status: StatusErrored},
				{Name: "d", Group: "Recovery", Status: StatusSkipped},
			},
			wantCounts: Counts{Passed: 1, Failed: 1, Errors: 1, Skipped: 1},
			wantGroups: []string{"Login", "Register", "Recovery"},
		},
		{
			name: "groups keep first appearance order",
			results: []Result{
				{Name: "a", Group: "B", Status: StatusPassed},
				{Name: "b", Group: "A", Status: StatusPassed},
				{Name: "c", Group: "B", Status: StatusFailed},
			},
			wantCounts: Counts{Passed: 2, Failed: 1},
			wantGroups: []string{"B", "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := Aggregate(tt.results, 2*time.Second)

			assert.Equal(t, len(tt.results), stats.Total)
			assert.Equal(t, tt.wantCounts, stats.Counts)
			assert.Equal(t, stats.Total, stats.Sum())
			assert.Equal(t, 2.0, stats.Duration)
			assert.Equal(t, tt.wantGroups, stats.PerGroup.Names())

			for _, group := range stats.PerGroup.Names() {
				counts, ok := stats.PerGroup.Get(group)
				require.True(t, ok)

				members := 0
				for _, res := range tt.results {
					if res.Group == group {
						members++
					}
				}
				assert.Equal(t, members, counts.Sum(), "group %s", group)
			}
		})
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	results := []Result{
		{Name: "a", Group: "X", Status: StatusPassed, Duration: 0.1},
		{Name: "b", Group: "Y", Status: StatusSkipped, Duration: 0.2, Message: "later"},
	}

	first := Aggregate(results, time.Second)
	second := Aggregate(results, time.Second)

	assert.Equal(t, first, second)
}

func TestAggregate_DurationIsWallClock(t *testing.T) {
	results := []Result{
		{Name: "a", Group: "X", Status: StatusPassed, Duration: 0.4},
		{Name: "b", Group: "X", Status: StatusPassed, Duration: 0.4},
	}

	stats := Aggregate(results, 1500*time.Millisecond)

	assert.Equal(t, 1.5, stats.Duration)
}

func TestNewReport_ClampsFinishedBeforeStarted(t *testing.T) {
	started := time.Unix(1700000000, 0)
	report := NewReport(nil, started, started.Add(-time.Second))

	assert.GreaterOrEqual(t, report.FinishedAt, report.StartedAt)
	assert.Equal(t, 0.0, report.Stats.Duration)
	assert.NotNil(t, report.Results)
}

func TestReport_Summary(t *testing.T) {
	report := NewReport([]Result{
		{Name: "a", Group: "G", Status: StatusPassed},
		{Name: "b", Group: "G", Status: StatusErrored},
	}, time.Unix(0, 0), time.Unix(1, 0))

	assert.Equal(t, "Total: 2 | Passed: 1 | Errors: 1 | Failed: 0 | Skipped: 0", report.Summary())
}
