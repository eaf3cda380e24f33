// Package telemetry exposes Prometheus metrics and an OpenTelemetry tracer
// for the media-scan service.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	namespace  = "media_scan"
	tracerName = "github.com/jonesrussell/north-cloud/media-scan"
)

// Cache lookup outcomes.
const (
	CacheHit   = "hit"
	CacheStale = "stale"
	CacheMiss  = "miss"
)

// Metrics holds all media-scan Prometheus metrics.
type Metrics struct {
	// Backend calls
	BackendRequests *prometheus.CounterVec
	BackendDuration *prometheus.HistogramVec
	BreakerState    prometheus.Gauge

	// Query cache
	CacheRequests      *prometheus.CounterVec
	CacheInvalidations prometheus.Counter
	CacheEntries       prometheus.Gauge

	// Reports
	ReportsGenerated *prometheus.CounterVec
	ReportDuration   *prometheus.HistogramVec

	// Scraping tasks launched from this service
	ScrapingTasks *prometheus.CounterVec
}

// Provider wraps telemetry providers.
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	registry *prometheus.Registry
}

// NewProvider builds metrics on a private registry, so several providers can
// coexist in one process (tests).
func NewProvider() *Provider {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Provider{
		Tracer:   otel.Tracer(tracerName),
		Metrics:  initMetrics(promauto.With(reg)),
		registry: reg,
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry is exposed for tests.
func (p *Provider) Registry() *prometheus.Registry {
	return p.registry
}

func initMetrics(f promauto.Factory) *Metrics {
	m := &Metrics{}
	initBackendMetrics(f, m)
	initCacheMetrics(f, m)
	initReportMetrics(f, m)
	return m
}

func initBackendMetrics(f promauto.Factory, m *Metrics) {
	m.BackendRequests = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Backend API calls by endpoint and status class",
	}, []string{"method", "endpoint", "status"})

	m.BackendDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Backend API call latency",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
	}, []string{"method", "endpoint"})

	m.BreakerState = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backend_circuit_state",
		Help:      "Backend circuit breaker state (0 closed, 1 open, 2 half-open)",
	})
}

func initCacheMetrics(f promauto.Factory, m *Metrics) {
	m.CacheRequests = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Query cache lookups by resource and result (hit, stale, miss)",
	}, []string{"resource", "result"})

	m.CacheInvalidations = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_invalidations_total",
		Help:      "Query cache prefix invalidations",
	})

	m.CacheEntries = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_entries",
		Help:      "Entries held by the in-memory query cache",
	})
}

func initReportMetrics(f promauto.Factory, m *Metrics) {
	m.ReportsGenerated = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_generated_total",
		Help:      "Reports generated by period, format and outcome",
	}, []string{"period", "format", "outcome"})

	m.ReportDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_duration_seconds",
		Help:      "Time to fetch and render a report",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"format"})

	m.ScrapingTasks = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scraping_tasks_total",
		Help:      "Scraping tasks launched by type and final status",
	}, []string{"type", "status"})
}

// RecordBackendCall records one backend call.
func (m *Metrics) RecordBackendCall(method, endpoint, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.BackendRequests.WithLabelValues(method, endpoint, status).Inc()
	m.BackendDuration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}

// RecordCacheLookup records a query cache lookup.
func (m *Metrics) RecordCacheLookup(resource, result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(resource, result).Inc()
}

// RecordReport records a generated (or failed) report.
func (m *Metrics) RecordReport(period, format string, err error, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.ReportsGenerated.WithLabelValues(period, format, outcome).Inc()
	m.ReportDuration.WithLabelValues(format).Observe(d.Seconds())
}

// RecordScrapingTask records a scraping task reaching status.
func (m *Metrics) RecordScrapingTask(taskType, status string) {
	if m == nil {
		return
	}
	m.ScrapingTasks.WithLabelValues(taskType, status).Inc()
}

// StartBackendSpan starts a client span for a backend call.
// Caller is responsible for calling span.End().
//
//nolint:spancheck // span is returned to caller who manages its lifecycle
func StartBackendSpan(ctx context.Context, tracer trace.Tracer, method, endpoint string) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}
	return tracer.Start(ctx, "backend."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("backend.endpoint", endpoint),
		),
	)
}

// EndSpan records err on span and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
