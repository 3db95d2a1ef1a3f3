// Package metrics exposes Prometheus collectors for the management core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AccountOps counts account/profile lifecycle operations by outcome.
	AccountOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radman_account_operations_total",
		Help: "Account and profile lifecycle operations by operation and result.",
	}, []string{"operation", "result"})

	// DeviceProbes counts connectivity probes by resulting device status.
	DeviceProbes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radman_device_probe_total",
		Help: "Device connectivity probes by resulting status.",
	}, []string{"status"})

	// ActivityLogWrites counts audit trail appends by outcome.
	ActivityLogWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "radman_activity_log_writes_total",
		Help: "Activity log appends by result.",
	}, []string{"result"})

	// PollDuration observes full telemetry poll sweeps.
	PollDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "radman_poll_sweep_seconds",
		Help:    "Duration of full device telemetry poll sweeps.",
		Buckets: prometheus.DefBuckets,
	})
)

// MarkAccountOp records one lifecycle operation outcome.
func MarkAccountOp(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	AccountOps.WithLabelValues(operation, result).Inc()
}
