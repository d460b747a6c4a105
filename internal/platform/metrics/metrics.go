package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// HTTP latency by method, route pattern and status
	RequestLatency *prometheus.HistogramVec

	// Service operation outcomes
	Operations *prometheus.CounterVec

	EmployeesCreated prometheus.Counter
	EmployeesDeleted prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "employee_api_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method, route and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "status"}),

		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "employee_api_operations_total",
			Help: "Employee service operations by name and outcome",
		}, []string{"operation", "outcome"}), // outcome: "ok", "not_found", "invalid", "conflict", "error"

		EmployeesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "employee_api_employees_created_total",
			Help: "Total number of employees created",
		}),

		EmployeesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "employee_api_employees_deleted_total",
			Help: "Total number of employees deleted",
		}),
	}
}

// ObserveRequest records the latency of a finished HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(method, route, status).Observe(d.Seconds())
	}
}

// IncrementOperation records a service operation outcome.
func (m *Metrics) IncrementOperation(operation, outcome string) {
	if m != nil {
		m.Operations.WithLabelValues(operation, outcome).Inc()
	}
}

// IncrementEmployeesCreated increments the employees created counter by 1.
func (m *Metrics) IncrementEmployeesCreated() {
	if m != nil {
		m.EmployeesCreated.Inc()
	}
}

// IncrementEmployeesDeleted increments the employees deleted counter by 1.
func (m *Metrics) IncrementEmployeesDeleted() {
	if m != nil {
		m.EmployeesDeleted.Inc()
	}
}
