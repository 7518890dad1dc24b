package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authcheck-cli/testreport"
)

func TestMetrics_ObserveReport(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, zerolog.Nop())
	start := time.Unix(1700000000, 0)
	report := testreport.NewReport([]testreport.Result{
		{Name: "a", Group: "Login", Status: testreport.StatusPassed, Duration: 0.01},
		{Name: "b", Group: "Login", Status: testreport.StatusFailed, Duration: 0.02},
		{Name: "c", Group: "Recovery", Status: testreport.StatusPassed, Duration: 0.03},
	}, start, start.Add(2*time.Second))

	require.NoError(t, m.ObserveReport(context.Background(), report))
	require.NoError(t, m.ObserveReport(context.Background(), report))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.runsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.casesTotal.WithLabelValues("Login", "passed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.casesTotal.WithLabelValues("Login", "failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.lastRunDuration))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.lastRunResults.WithLabelValues("passed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.lastRunResults.WithLabelValues("errors")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.caseDuration))
}

func TestMetrics_ObserveStoreError(t *testing.T) {
	m := New(prometheus.NewRegistry(), zerolog.Nop())

	m.ObserveStoreError(errors.New("disk full"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeErrors))
}

func TestNew_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg, zerolog.Nop())

	assert.Panics(t, func() { New(reg, zerolog.Nop()) }, "duplicate registration")
}
