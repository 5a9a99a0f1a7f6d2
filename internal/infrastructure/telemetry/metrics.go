package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refreshCyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "transfers",
		Subsystem: "poller",
		Name:      "refresh_cycles_total",
		Help:      "Refresh cycles by outcome.",
	}, []string{"result"})

	refreshDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "transfers",
		Subsystem: "poller",
		Name:      "refresh_dropped_total",
		Help:      "Refresh triggers dropped because one was already in flight.",
	})

	refreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "transfers",
		Subsystem: "poller",
		Name:      "refresh_duration_seconds",
		Help:      "Duration of full refresh cycles.",
		Buckets:   prometheus.DefBuckets,
	})

	workflowRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "transfers",
		Subsystem: "workflow",
		Name:      "request_duration_seconds",
		Help:      "Duration of workflow service round trips by operation and result.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "result"})
)

// ObserveRefreshCycle records one refresh cycle outcome
func ObserveRefreshCycle(result string, elapsed time.Duration) {
	refreshCyclesTotal.WithLabelValues(result).Inc()
	refreshDuration.Observe(elapsed.Seconds())
}

// CountDroppedRefresh records a trigger dropped by the re-entrancy guard
func CountDroppedRefresh() {
	refreshDroppedTotal.Inc()
}

// ObserveWorkflowRequest records one workflow service round trip
func ObserveWorkflowRequest(operation, result string, elapsed time.Duration) {
	workflowRequestDuration.WithLabelValues(operation, result).Observe(elapsed.Seconds())
}
