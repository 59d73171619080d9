// Package metrics provides Prometheus metrics for the chestboard
// pipeline and HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Manager owns every metric the service exposes. A process normally
// uses the package-level helpers backed by the default manager; tests
// may construct an isolated Manager with their own registry.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  *prometheus.Registry

	// Pipeline metrics.
	rowsParsed       prometheus.Counter
	rowsMalformed    prometheus.Counter
	playersDropped   prometheus.Counter
	ruleMisses       prometheus.Counter
	pipelineDuration prometheus.Histogram

	// Week lifecycle metrics.
	weekLoads        prometheus.Counter
	weekLoadFailures prometheus.Counter
	weekSwitchStale  prometheus.Counter

	// Current-state gauges.
	currentPlayers prometheus.Gauge

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a Manager and registers its metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "chestboard",
		buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initMetrics()
	return m
}

func (m *Manager) initMetrics() {
	factory := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
		}
	}

	m.rowsParsed = prometheus.NewCounter(factory("rows_parsed_total", "Raw data rows parsed from snapshot files"))
	m.rowsMalformed = prometheus.NewCounter(factory("rows_malformed_total", "Rows with a field-count mismatch against the header"))
	m.playersDropped = prometheus.NewCounter(factory("players_dropped_total", "Rows dropped during normalization (no usable name)"))
	m.ruleMisses = prometheus.NewCounter(factory("rule_misses_total", "Category keys with no matching score rule"))
	m.weekLoads = prometheus.NewCounter(factory("week_loads_total", "Week snapshots loaded"))
	m.weekLoadFailures = prometheus.NewCounter(factory("week_load_failures_total", "Week snapshot loads that failed"))
	m.weekSwitchStale = prometheus.NewCounter(factory("week_switch_stale_total", "Week loads discarded because a newer switch superseded them"))

	m.pipelineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_duration_ms",
		Help:      "End-to-end pipeline run duration in milliseconds",
		Buckets:   m.buckets,
	})

	m.currentPlayers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "current_players",
		Help:      "Player count in the currently selected week",
	})

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.buckets,
	}, []string{"endpoint", "method"})

	m.registry.MustRegister(
		m.rowsParsed,
		m.rowsMalformed,
		m.playersDropped,
		m.ruleMisses,
		m.pipelineDuration,
		m.weekLoads,
		m.weekLoadFailures,
		m.weekSwitchStale,
		m.currentPlayers,
		m.httpRequests,
		m.httpRequestDuration,
	)
}

// Registry returns the manager's registry for serving.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Recording methods.

func (m *Manager) RecordRowsParsed(n int)      { m.rowsParsed.Add(float64(n)) }
func (m *Manager) RecordRowMalformed()         { m.rowsMalformed.Inc() }
func (m *Manager) RecordPlayerDropped()        { m.playersDropped.Inc() }
func (m *Manager) RecordRuleMiss()             { m.ruleMisses.Inc() }
func (m *Manager) RecordWeekLoad()             { m.weekLoads.Inc() }
func (m *Manager) RecordWeekLoadFailure()      { m.weekLoadFailures.Inc() }
func (m *Manager) RecordWeekSwitchStale()      { m.weekSwitchStale.Inc() }
func (m *Manager) UpdateCurrentPlayers(n int)  { m.currentPlayers.Set(float64(n)) }
func (m *Manager) ObservePipeline(ms float64)  { m.pipelineDuration.Observe(ms) }

func (m *Manager) RecordHTTPRequest(endpoint, method, status string) {
	m.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func (m *Manager) ObserveHTTPRequest(endpoint, method string, ms float64) {
	m.httpRequestDuration.WithLabelValues(endpoint, method).Observe(ms)
}

var defaultManager = NewManager()

// GetRegistry returns the default manager's registry.
func GetRegistry() *prometheus.Registry { return defaultManager.Registry() }

// Package-level helpers delegating to the default manager.

func RecordRowsParsed(n int)     { defaultManager.RecordRowsParsed(n) }
func RecordRowMalformed()        { defaultManager.RecordRowMalformed() }
func RecordPlayerDropped()       { defaultManager.RecordPlayerDropped() }
func RecordRuleMiss()            { defaultManager.RecordRuleMiss() }
func RecordWeekLoad()            { defaultManager.RecordWeekLoad() }
func RecordWeekLoadFailure()     { defaultManager.RecordWeekLoadFailure() }
func RecordWeekSwitchStale()     { defaultManager.RecordWeekSwitchStale() }
func UpdateCurrentPlayers(n int) { defaultManager.UpdateCurrentPlayers(n) }
func ObservePipeline(ms float64) { defaultManager.ObservePipeline(ms) }

func RecordHTTPRequest(endpoint, method, status string) {
	defaultManager.RecordHTTPRequest(endpoint, method, status)
}

func ObserveHTTPRequest(endpoint, method string, ms float64) {
	defaultManager.ObserveHTTPRequest(endpoint, method, ms)
}
