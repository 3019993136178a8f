package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the asset service.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	entriesPosted  prometheus.Counter
	amountPosted   prometheus.Counter
	batchDuration  prometheus.Histogram
	batchFailures  prometheus.Counter
	disposalsTotal *prometheus.CounterVec
}

// NewMetrics initialises the registry and base metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assets_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assets_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	entries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assets_depreciation_entries_posted_total",
		Help: "Journal entries posted by the depreciation batch.",
	})
	amount := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assets_depreciation_amount_posted_total",
		Help: "Total depreciation amount posted, in company currency.",
	})
	batch := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "assets_depreciation_batch_duration_seconds",
		Help:    "Wall time of one depreciation batch run.",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
	})
	failures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assets_depreciation_batch_failures_total",
		Help: "Depreciation batch runs that ended with an error.",
	})
	disposals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assets_disposals_total",
		Help: "Disposal operations by kind (scrap or restore).",
	}, []string{"kind"})
	registry.MustRegister(requests, duration, entries, amount, batch, failures, disposals)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		entriesPosted:   entries,
		amountPosted:    amount,
		batchDuration:   batch,
		batchFailures:   failures,
		disposalsTotal:  disposals,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveBatch records the outcome of one depreciation batch run.
func (m *Metrics) ObserveBatch(entries int, amount float64, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.entriesPosted.Add(float64(entries))
	m.amountPosted.Add(amount)
	m.batchDuration.Observe(took.Seconds())
	if err != nil {
		m.batchFailures.Inc()
	}
}

// IncDisposal counts a disposal operation.
func (m *Metrics) IncDisposal(kind string) {
	if m == nil {
		return
	}
	m.disposalsTotal.WithLabelValues(kind).Inc()
}

// Registerer exposes the registry for custom metric registration.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func routePattern(r *http.Request) string {
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		if pattern := ctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
