// Package metrics exposes Prometheus counters for HTTP traffic, rewards
// and text generation.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grimes-money/money-adventure/internal/domain/shared"
)

const namespace = "money_adventure"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	requests       *prometheus.CounterVec
	durations      *prometheus.HistogramVec
	activities     *prometheus.CounterVec
	coins          prometheus.Counter
	achievements   *prometheus.CounterVec
	generations    *prometheus.CounterVec
	breakerState   prometheus.Gauge
	activeSessions prometheus.Gauge
	sweptSessions  prometheus.Counter
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		activities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activities_completed_total",
			Help:      "First-time activity completions by module.",
		}, []string{"module"}),
		coins: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coins_awarded_total",
			Help:      "Coins paid out to students.",
		}),
		achievements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "achievements_unlocked_total",
			Help:      "Achievements unlocked by title.",
		}, []string{"title"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Generation requests by kind and result source.",
		}, []string{"kind", "source"}),
		breakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "generation_breaker_open",
			Help:      "1 while the generation circuit breaker is not closed.",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Live visitor sessions at the last sweep.",
		}),
		sweptSessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_swept_total",
			Help:      "Expired sessions removed by the sweep job.",
		}),
	}

	m.registry.MustRegister(
		m.requests, m.durations,
		m.activities, m.coins, m.achievements,
		m.generations, m.breakerState,
		m.activeSessions, m.sweptSessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.durations.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveGeneration counts one generation outcome.
func (m *Metrics) ObserveGeneration(kind, source string) {
	m.generations.WithLabelValues(kind, source).Inc()
}

// SetBreakerOpen records the generation breaker state.
func (m *Metrics) SetBreakerOpen(open bool) {
	if open {
		m.breakerState.Set(1)
		return
	}
	m.breakerState.Set(0)
}

// SetActiveSessions records the live session count.
func (m *Metrics) SetActiveSessions(n int) { m.activeSessions.Set(float64(n)) }

// AddSwept counts sessions removed by a sweep.
func (m *Metrics) AddSwept(n int) { m.sweptSessions.Add(float64(n)) }

// HandleEvent updates reward counters from committed domain events.
// It has the event bus handler signature.
func (m *Metrics) HandleEvent(e shared.Event) error {
	switch ev := e.(type) {
	case shared.ActivityCompletedEvent:
		m.activities.WithLabelValues(ev.Module).Inc()
	case shared.CoinsAwardedEvent:
		m.coins.Add(float64(ev.Amount))
	case shared.AchievementUnlockedEvent:
		m.achievements.WithLabelValues(ev.Title).Inc()
	}
	return nil
}
