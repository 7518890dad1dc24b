package testreport

import "time"

// Aggregate folds results into overall and per-group counters.
// wall is the start-to-finish span of the run, not the sum of case durations.
func Aggregate(results []Result, wall time.Duration) Stats {
	stats := Stats{
		Total:    len(results),
		Duration: wall.Seconds(),
		PerGroup: newGroupStats(),
	}

	for _, res := range results {
		stats.Counts.Add(res.Status)
		stats.PerGroup.add(res.Group, res.Status)
	}

	return stats
}
