// Package metrics exposes Prometheus metrics for the review server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentstation/reclass/internal/server/middleware"
)

const namespace = "reclass"

// Metrics holds the server collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Submissions     prometheus.Counter
	Skips           prometheus.Counter
	HierarchyAdds   prometheus.Counter
	SessionsDone    prometheus.Counter
	ActiveSessions  prometheus.GaugeFunc
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers the review and HTTP collectors. activeSessions reports
// the number of live sessions when scraped; it may be nil.
func New(activeSessions func() float64) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	if activeSessions == nil {
		activeSessions = func() float64 { return 0 }
	}

	return &Metrics{
		registry: reg,
		Submissions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Reclassifications appended to the ledger.",
		}),
		Skips: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skips_total",
			Help:      "Records skipped in a review session.",
		}),
		HierarchyAdds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hierarchy_entries_added_total",
			Help:      "Options added to the classification hierarchy.",
		}),
		SessionsDone: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_all_complete_total",
			Help:      "Sessions that reached all complete.",
		}),
		ActiveSessions: factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Review sessions currently held by the server.",
		}, activeSessions),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of HTTP requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Instrument records count and latency of requests served by next under
// the given route label. A nil *Metrics returns next unchanged.
func (m *Metrics) Instrument(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := middleware.Wrap(w)

		next.ServeHTTP(rw, r)

		m.requestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(rw.Status())).Inc()
	})
}
