package adapthttp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"biodash/internal/pk"
)

// Metrics holds the Prometheus collectors of one server. Each instance owns
// its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	score          prometheus.Gauge
	goal           prometheus.Gauge
	velocityAlerts prometheus.Counter
	ddiWarnings    *prometheus.CounterVec
	skipped        *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors under namespace. A
// non-nil peaks adds a gauge reporting the cascade peak cache size.
func NewMetrics(namespace string, peaks *pk.PeakCache) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bio_score",
			Help:      "Most recently computed bio-score",
		}),
		goal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "water_goal_ml",
			Help:      "Most recently computed daily water goal",
		}),
		velocityAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "water_velocity_alerts_total",
			Help:      "Overhydration velocity alerts raised",
		}),
		ddiWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ddi_warnings_total",
			Help:      "Interaction warnings emitted, by rule type",
		}, []string{"type"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_skipped_total",
			Help:      "Malformed events skipped during evaluation, by kind",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(
		m.httpRequests, m.httpDuration,
		m.score, m.goal, m.velocityAlerts, m.ddiWarnings, m.skipped,
		collectors.NewGoCollector(),
	)
	if peaks != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pk_peak_cache_entries",
			Help:      "Cascade peaks held in the cache",
		}, func() float64 { return float64(peaks.Len()) }))
	}
	return m
}

func (m *Metrics) ScoreComputed(score float64) { m.score.Set(score) }
func (m *Metrics) DDIWarning(kind string)      { m.ddiWarnings.WithLabelValues(kind).Inc() }
func (m *Metrics) VelocityAlert()              { m.velocityAlerts.Inc() }
func (m *Metrics) GoalComputed(goalMl int)     { m.goal.Set(float64(goalMl)) }

func (m *Metrics) EventsSkipped(kind string, n int) {
	m.skipped.WithLabelValues(kind).Add(float64(n))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latencies by route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
