// AngelaMos | 2026
// metrics.go

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records
// nothing, which keeps wiring in tests short.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	statusTransitions *prometheus.CounterVec
	onboardingCommits *prometheus.CounterVec
	mediaUploads      *prometheus.CounterVec
	reconciliations   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		statusTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "account_status_transitions_total",
				Help: "Account status transitions by event and outcome.",
			},
			[]string{"event", "outcome"},
		),
		onboardingCommits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboarding_commits_total",
				Help: "Onboarding commits by outcome.",
			},
			[]string{"outcome"},
		),
		mediaUploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "media_uploads_total",
				Help: "Media transfers by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		reconciliations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "video_reconciliations_total",
				Help: "Video job reconciliations by observed phase.",
			},
			[]string{"phase", "persisted"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.statusTransitions,
		m.onboardingCommits,
		m.mediaUploads,
		m.reconciliations,
	)

	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Instrument labels requests by chi route pattern so path parameters do not
// blow up label cardinality.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}

		m.httpRequestDuration.WithLabelValues(r.Method, route).
			Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.code)).
			Inc()
	})
}

func (m *Metrics) StatusTransition(event string, err error) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(event, outcome(err)).Inc()
}

func (m *Metrics) OnboardingCommit(err error) {
	if m == nil {
		return
	}
	m.onboardingCommits.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) MediaUpload(kind string, err error) {
	if m == nil {
		return
	}
	m.mediaUploads.WithLabelValues(kind, outcome(err)).Inc()
}

func (m *Metrics) Reconciliation(phase string, persisted bool) {
	if m == nil {
		return
	}
	m.reconciliations.WithLabelValues(phase, strconv.FormatBool(persisted)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
