// Package metrics provides Prometheus metrics for keyword ranking runs.
//
// The pipeline is a batch process, so metrics live on an in-process
// registry and are gathered into a run summary instead of being served
// over HTTP.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Manager owns all Prometheus metrics for the pipeline.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  *prometheus.Registry

	rowsRead      prometheus.Counter
	rowsRejected  prometheus.Counter
	selected      prometheus.Gauge
	budgetUsed    prometheus.Gauge
	scores        prometheus.Histogram
	stageDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager()
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "keyrank",
		subsystem: "pipeline",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	factory := func(name, help string) prometheus.Opts {
		return prometheus.Opts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
		}
	}

	m.rowsRead = prometheus.NewCounter(prometheus.CounterOpts(factory(
		"rows_read_total", "Input rows parsed from the metrics table.")))
	m.rowsRejected = prometheus.NewCounter(prometheus.CounterOpts(factory(
		"rows_rejected_total", "Rows rejected by domain validation.")))
	m.selected = prometheus.NewGauge(prometheus.GaugeOpts(factory(
		"keywords_selected", "Keywords in the final selection.")))
	m.budgetUsed = prometheus.NewGauge(prometheus.GaugeOpts(factory(
		"budget_chars_used", "Characters consumed by the final selection.")))
	m.scores = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "composite_score",
		Help:      "Distribution of composite keyword scores.",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
	})
	m.stageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stage_duration_seconds",
		Help:      "Wall time spent per pipeline stage.",
		Buckets:   m.buckets,
	}, []string{"stage"})

	m.registry.MustRegister(
		m.rowsRead, m.rowsRejected, m.selected,
		m.budgetUsed, m.scores, m.stageDuration,
	)
	return m
}

// Package-level recording helpers against the global manager.

// RecordRowsRead counts parsed input rows.
func RecordRowsRead(n int) { globalManager.rowsRead.Add(float64(n)) }

// RecordRowsRejected counts rows that failed domain validation.
func RecordRowsRejected(n int) { globalManager.rowsRejected.Add(float64(n)) }

// UpdateSelected sets how many keywords the run selected.
func UpdateSelected(n int) { globalManager.selected.Set(float64(n)) }

// UpdateBudgetUsed sets the characters consumed by the selection.
func UpdateBudgetUsed(n int) { globalManager.budgetUsed.Set(float64(n)) }

// ObserveScore records one composite score.
func ObserveScore(v float64) { globalManager.scores.Observe(v) }

// ObserveStage records the duration of one pipeline stage.
func ObserveStage(stage string, d time.Duration) {
	globalManager.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Summary gathers the global registry into sorted "name value" lines,
// suitable for printing at the end of a run.
func Summary() (string, error) {
	return globalManager.Summary()
}

// Summary gathers this manager's registry.
func (m *Manager) Summary() (string, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGather, err)
	}

	var lines []string
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			name := mf.GetName()
			for _, lp := range metric.GetLabel() {
				name += fmt.Sprintf("{%s=%s}", lp.GetName(), lp.GetValue())
			}
			switch {
			case metric.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s %g", name, metric.GetCounter().GetValue()))
			case metric.GetGauge() != nil:
				lines = append(lines, fmt.Sprintf("%s %g", name, metric.GetGauge().GetValue()))
			case metric.GetHistogram() != nil:
				h := metric.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s_count %d", name, h.GetSampleCount()))
				lines = append(lines, fmt.Sprintf("%s_sum %g", name, h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n"), nil
}
