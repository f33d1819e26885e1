// Package metrics holds the Prometheus collectors describing catalog store activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all Prometheus metrics for the catalog store.
type Registry struct {
	// Store operations
	OpsTotal   *prometheus.CounterVec
	OpDuration *prometheus.HistogramVec

	// Integrity
	CascadedRowsTotal *prometheus.CounterVec
	ConstraintErrors  *prometheus.CounterVec
	DriftedSites      *prometheus.GaugeVec
}

// NewRegistry creates every metric and registers it with reg.
// Passing a fresh prometheus.NewRegistry() keeps separate catalogs from colliding.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)
	return &Registry{
		OpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rocketdb_store_operations_total",
				Help: "Total store operations by operation name and result",
			},
			[]string{"op", "result"},
		),
		OpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rocketdb_store_operation_duration_seconds",
				Help:    "Store operation latency distribution in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"op"},
		),
		CascadedRowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rocketdb_cascaded_rows_total",
				Help: "Rows removed or unlinked by delete policies, by table and action",
			},
			[]string{"table", "action"},
		),
		ConstraintErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rocketdb_integrity_errors_total",
				Help: "Rejected writes by error kind",
			},
			[]string{"kind"},
		),
		DriftedSites: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "rocketdb_drifted_sites",
				Help: "Sites whose counters disagreed with launch rows at the last check",
			},
			[]string{"site"},
		),
	}
}

// Observe records the outcome and latency of a store operation started at start.
// A nil Registry is valid and records nothing.
func (r *Registry) Observe(op string, start time.Time, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.OpsTotal.WithLabelValues(op, result).Inc()
	r.OpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Rejected counts a write refused with the given error kind.
func (r *Registry) Rejected(kind string) {
	if r == nil {
		return
	}
	r.ConstraintErrors.WithLabelValues(kind).Inc()
}

// Cascaded counts rows affected by a delete policy.
func (r *Registry) Cascaded(table, action string, n int) {
	if r == nil || n == 0 {
		return
	}
	r.CascadedRowsTotal.WithLabelValues(table, action).Add(float64(n))
}

// Drift records the number of drifted sites of each kind found by the last check.
func (r *Registry) Drift(site string, n int) {
	if r == nil {
		return
	}
	r.DriftedSites.WithLabelValues(site).Set(float64(n))
}
