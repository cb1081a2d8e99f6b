// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProgressOps counts engine-backed progress operations by kind and result.
	ProgressOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "habithero_progress_operations_total",
		Help: "Progress engine operations applied to habits.",
	}, []string{"operation", "result"})

	// ResetRuns counts midnight reset batch executions.
	ResetRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "habithero_midnight_reset_runs_total",
		Help: "Midnight reset batch runs.",
	})

	// ResetHabits counts per-habit outcomes within reset runs.
	ResetHabits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "habithero_midnight_reset_habits_total",
		Help: "Per-habit outcomes of midnight reset runs.",
	}, []string{"result"})
)
