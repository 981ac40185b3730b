// Package metrics provides Prometheus metrics for resume generation runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonathan/resume-packer/internal/types"
)

// Metric names as constants for consistency.
const (
	MetricRecordsConsidered = "resume_records_considered_total"
	MetricRecordsAdmitted   = "resume_records_admitted_total"
	MetricBudgetUtilization = "resume_budget_utilization_ratio"
	MetricProjectCache      = "resume_project_cache_lookups_total"
	MetricStageDuration     = "resume_stage_duration_seconds"
)

// Cache lookup outcomes
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics contains Prometheus collectors for selection runs.
// All operations are thread-safe, and a nil *Metrics discards observations.
type Metrics struct {
	considered    *prometheus.CounterVec
	admitted      *prometheus.CounterVec
	utilization   prometheus.Histogram
	cacheLookups  *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// NewMetrics creates a Metrics instance with all collectors initialised but unregistered.
func NewMetrics() *Metrics {
	return &Metrics{
		considered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRecordsConsidered,
				Help: "Records offered to the selector by kind",
			},
			[]string{"kind"},
		),
		admitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRecordsAdmitted,
				Help: "Records admitted onto the page by kind",
			},
			[]string{"kind"},
		),
		utilization: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricBudgetUtilization,
				Help:    "Fraction of the page budget consumed by admitted records",
				Buckets: []float64{0.1, 0.25, 0.5, 0.75, 0.9, 0.95, 1.0},
			},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricProjectCache,
				Help: "Project cache lookups by outcome",
			},
			[]string{"outcome"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricStageDuration,
				Help:    "Duration of pipeline stages in seconds",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"stage"},
		),
	}
}

// Collectors returns all collectors for registration
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.considered,
		m.admitted,
		m.utilization,
		m.cacheLookups,
		m.stageDuration,
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveSelection records one selector run
func (m *Metrics) ObserveSelection(offeredExperience, offeredProjects int, result *types.SelectionResult) {
	if m == nil {
		return
	}
	m.considered.WithLabelValues(string(types.KindExperience)).Add(float64(offeredExperience))
	m.considered.WithLabelValues(string(types.KindProject)).Add(float64(offeredProjects))
	if result == nil {
		return
	}
	m.admitted.WithLabelValues(string(types.KindExperience)).Add(float64(len(result.Experience)))
	m.admitted.WithLabelValues(string(types.KindProject)).Add(float64(len(result.Projects)))
	if result.Budget > 0 {
		m.utilization.Observe(result.TotalCost / result.Budget)
	}
}

// IncCacheLookup counts a project cache lookup
func (m *Metrics) IncCacheLookup(outcome string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(outcome).Inc()
}

// ObserveStage records how long a pipeline stage took
func (m *Metrics) ObserveStage(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// WriteTextfile dumps the registry in Prometheus text format, for node_exporter textfile collection
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
