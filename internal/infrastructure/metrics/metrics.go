package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Task mutation actions
const (
	ActionCreate = "create"
	ActionToggle = "toggle"
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// Metrics groups the collectors exposed on /metrics. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	TaskMutations   *prometheus.CounterVec
	LoginAttempts   *prometheus.CounterVec
	CalendarExports prometheus.Counter
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		Registry: registry,
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"method", "path"},
		),
		TaskMutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planner_task_mutations_total",
				Help: "Total number of task mutations",
			},
			[]string{"action"}, // action: create, toggle, edit, delete
		),
		LoginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planner_login_attempts_total",
				Help: "Total number of login attempts",
			},
			[]string{"result"}, // result: success, failed
		),
		CalendarExports: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "planner_calendar_exports_total",
				Help: "Total number of iCalendar exports served",
			},
		),
	}
}

// RecordRequest records one served HTTP request
func (m *Metrics) RecordRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, status).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTaskMutation counts a successful task mutation
func (m *Metrics) RecordTaskMutation(action string) {
	if m == nil {
		return
	}
	m.TaskMutations.WithLabelValues(action).Inc()
}

// RecordLogin counts a login attempt
func (m *Metrics) RecordLogin(success bool) {
	if m == nil {
		return
	}
	result := "failed"
	if success {
		result = "success"
	}
	m.LoginAttempts.WithLabelValues(result).Inc()
}

// RecordExport counts a served calendar export
func (m *Metrics) RecordExport() {
	if m == nil {
		return
	}
	m.CalendarExports.Inc()
}
