// Package prom implements the observability hooks with Prometheus metrics.
//
// Each Metrics value owns its registry, so several instances (one per test,
// say) never collide on the default registerer. Command-line runs dump the
// registry to a node_exporter textfile with WriteFile.
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/colgrid/pkg/grid"
	"github.com/matzehuels/colgrid/pkg/observability"
)

// Metrics records scenario runs, engine counters and cache traffic.
type Metrics struct {
	registry *prometheus.Registry

	scenarios *prometheus.CounterVec
	duration  prometheus.Histogram
	columns   prometheus.Gauge
	passes    *prometheus.GaugeVec
	counters  *prometheus.GaugeVec
	cache     *prometheus.CounterVec
	cacheSize prometheus.Counter
}

// New creates metrics under namespace, e.g. "colgrid".
func New(namespace string) *Metrics {
	m := &Metrics{
		scenarios: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "scenario",
				Name:      "runs_total",
				Help:      "Scenario runs by result",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "scenario",
				Name:      "duration_seconds",
				Help:      "Scenario run duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		columns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "scenario",
				Name:      "columns",
				Help:      "Column count of the last started scenario",
			},
		),
		passes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "passes",
				Help:      "Layout passes run by the engine of a scenario",
			},
			[]string{"scenario"},
		),
		counters: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "engine",
				Name:      "operations",
				Help:      "Engine operation counters of a scenario",
			},
			[]string{"scenario", "op"},
		),
		cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "requests_total",
				Help:      "Cache lookups and writes by key type and outcome",
			},
			[]string{"type", "outcome"},
		),
		cacheSize: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "written_bytes_total",
				Help:      "Bytes written to the cache",
			},
		),
	}
	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(m.scenarios, m.duration, m.columns, m.passes, m.counters, m.cache, m.cacheSize)
	return m
}

// Registry returns the registry holding all metrics.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteFile writes all metrics in the text exposition format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) OnScenarioStart(_ context.Context, _ string, columns int) {
	m.columns.Set(float64(columns))
}

func (m *Metrics) OnScenarioComplete(_ context.Context, _ string, _ int, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.scenarios.WithLabelValues(result).Inc()
	m.duration.Observe(d.Seconds())
}

func (m *Metrics) OnFlush(_ context.Context, scenario string, s grid.Stats) {
	m.passes.WithLabelValues(scenario).Set(float64(s.Passes))
	for op, n := range map[string]int{
		"distribute":  s.Distributions,
		"rescan":      s.Rescans,
		"resize":      s.Resizes,
		"incremental": s.Incremental,
		"measure":     s.Measures,
		"realize":     s.Realizations,
		"release":     s.Releases,
	} {
		m.counters.WithLabelValues(scenario, op).Set(float64(n))
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cache.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cache.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cache.WithLabelValues(keyType, "set").Inc()
	m.cacheSize.Add(float64(size))
}

var (
	_ observability.LayoutHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
)
