package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"authcheck-cli/testreport"
)

const (
	MetricsNamespace = "authcheck"
)

// Metrics exposes run outcomes to Prometheus
type Metrics struct {
	runsTotal       prometheus.Counter
	casesTotal      *prometheus.CounterVec
	caseDuration    *prometheus.HistogramVec
	lastRunDuration prometheus.Gauge
	lastRunResults  *prometheus.GaugeVec
	storeErrors     prometheus.Counter
	log             zerolog.Logger
}

// New registers the collectors with reg
func New(reg prometheus.Registerer, logger zerolog.Logger) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		runsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "runs_total",
			Help:      "Count of completed test runs",
		}),
		casesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "cases_total",
			Help:      "Count of executed test cases",
		}, []string{
			"group",
			"status",
		}),
		caseDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Name:      "case_duration_seconds",
			Help:      "Duration of test cases",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{
			"group",
		}),
		lastRunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall-clock duration of the latest run",
		}),
		lastRunResults: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "last_run_results",
			Help:      "Outcome counts of the latest run",
		}, []string{
			"status",
		}),
		storeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Name:      "store_errors_total",
			Help:      "Count of failed report saves",
		}),
		log: logger.With().Str("component", "metrics").Logger(),
	}
}

// ObserveReport records a persisted report
func (m *Metrics) ObserveReport(ctx context.Context, report *testreport.Report) error {
	m.runsTotal.Inc()
	for _, res := range report.Results {
		m.casesTotal.WithLabelValues(res.Group, string(res.Status)).Inc()
		m.caseDuration.WithLabelValues(res.Group).Observe(res.Duration)
	}
	m.lastRunDuration.Set(report.Stats.Duration)
	for _, status := range testreport.Statuses {
		m.lastRunResults.WithLabelValues(string(status)).Set(float64(report.Stats.Of(status)))
	}
	m.log.Debug().Int("total", report.Stats.Total).Msg("metrics updated")
	return nil
}

// ObserveStoreError counts a failed save
func (m *Metrics) ObserveStoreError(err error) {
	m.storeErrors.Inc()
}
