// Package metrics provides Prometheus metrics for quiz imports and queries.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pable/go-quiz-metrics/internal/model"
	"github.com/pable/go-quiz-metrics/internal/parser"
)

// Manager owns the collectors and the registry they live on.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram
	records      *prometheus.CounterVec
	diagnostics  *prometheus.CounterVec

	datasetPlayers prometheus.Gauge
	datasetEvents  prometheus.Gauge

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a manager with every collector registered.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "quizmetrics",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.loads = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "loads_total",
		Help:      "Workbook loads by result",
	}, []string{"result"})

	m.loadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "load_duration_seconds",
		Help:      "Time to fetch, decode and normalize a workbook",
		Buckets:   m.histogramBuckets,
	})

	m.records = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_normalized_total",
		Help:      "Records produced by the normalizers, by sheet",
	}, []string{"sheet"})

	m.diagnostics = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "diagnostics_total",
		Help:      "Build diagnostics by kind",
	}, []string{"kind"})

	m.datasetPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_players",
		Help:      "Summary rows in the dataset being served",
	})

	m.datasetEvents = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_events",
		Help:      "Answer events in the dataset being served",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method"})
}

// Registry returns the registry the collectors are registered on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordLoad counts one workbook load and its duration.
func (m *Manager) RecordLoad(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.loads.WithLabelValues(result).Inc()
	m.loadDuration.Observe(d.Seconds())
}

// SetDataset publishes the size of the dataset being served.
func (m *Manager) SetDataset(ds model.Dataset) {
	m.datasetPlayers.Set(float64(len(ds.Summaries)))
	m.datasetEvents.Set(float64(len(ds.Events)))
}

// RecordHTTPRequest counts one request against its route pattern.
func (m *Manager) RecordHTTPRequest(route, method string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// Observer counts build diagnostics and normalized records.
func (m *Manager) Observer() parser.Observer {
	return parser.ObserverFunc(func(d parser.Diagnostic) {
		m.diagnostics.WithLabelValues(string(d.Kind)).Inc()
		if d.Kind == parser.KindSheetNormalized {
			m.records.WithLabelValues(d.Sheet).Add(float64(d.Records))
		}
	})
}
