// Package metrics holds the server's Prometheus instruments.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	AuthEventsTotal     *prometheus.CounterVec
	TaskOperationsTotal *prometheus.CounterVec

	DBUp prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewMetrics creates the instruments and registers them with registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskboard_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskboard_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		AuthEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskboard_auth_events_total",
				Help: "Register, login and logout attempts by outcome",
			},
			[]string{"event", "outcome"},
		),
		TaskOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskboard_task_operations_total",
				Help: "Task operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		DBUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "taskboard_db_up",
				Help: "1 when the last database ping succeeded",
			},
		),
		gatherer: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthEventsTotal,
		m.TaskOperationsTotal,
		m.DBUp,
	)

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request. route is the mux
// template, not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// AuthEvent counts an auth attempt.
func (m *Metrics) AuthEvent(event string, err error) {
	if m == nil {
		return
	}
	m.AuthEventsTotal.WithLabelValues(event, outcome(err)).Inc()
}

// TaskOperation counts a task operation.
func (m *Metrics) TaskOperation(op string, err error) {
	if m == nil {
		return
	}
	m.TaskOperationsTotal.WithLabelValues(op, outcome(err)).Inc()
}

// SetDBUp records the result of a database health probe.
func (m *Metrics) SetDBUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.DBUp.Set(1)
	} else {
		m.DBUp.Set(0)
	}
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
