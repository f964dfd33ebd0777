// Package metrics provides Prometheus metrics for the generation service.
// All methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

type Metrics struct {
	GenerationsTotal         *prometheus.CounterVec
	GenerationDuration       *prometheus.HistogramVec
	PersistenceFailuresTotal *prometheus.CounterVec
	InstructionsCacheTotal   *prometheus.CounterVec
	HTTPRequestsTotal        *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg. Pass prometheus.DefaultRegisterer
// to expose them on the default /metrics handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		GenerationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "genstudio_generations_total",
				Help: "Generation requests by type and outcome",
			},
			[]string{"type", "outcome"},
		),
		GenerationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "genstudio_generation_duration_seconds",
				Help:    "Time spent waiting on the upstream generation API",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"type"},
		),
		PersistenceFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "genstudio_persistence_failures_total",
				Help: "Failed writes after a successful generation",
			},
			[]string{"destination"},
		),
		InstructionsCacheTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "genstudio_instructions_cache_total",
				Help: "System instructions cache lookups by result",
			},
			[]string{"result"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "genstudio_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "status"},
		),
	}
}

func (m *Metrics) ObserveGeneration(kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.GenerationsTotal.WithLabelValues(kind, outcome).Inc()
	if outcome != OutcomeRejected {
		m.GenerationDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	}
}

func (m *Metrics) PersistenceFailed(destination string) {
	if m == nil {
		return
	}
	m.PersistenceFailuresTotal.WithLabelValues(destination).Inc()
}

func (m *Metrics) InstructionsCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.InstructionsCacheTotal.WithLabelValues(result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Instrument counts requests served by next under the given route label.
func (m *Metrics) Instrument(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}
