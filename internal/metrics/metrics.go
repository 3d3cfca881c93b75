// Package metrics holds the prometheus collectors for the functions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Callback outcomes
const (
	OutcomeCredited    = "credited"
	OutcomeDuplicate   = "duplicate"
	OutcomeNoAmount    = "no_amount"
	OutcomeFailed      = "failed"
	OutcomeLockTimeout = "lock_timeout"
)

// Push dispatch statuses
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

var (
	CallbacksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "callbacks_processed_total",
			Help: "Total number of M-Pesa callbacks processed",
		},
		[]string{"outcome"},
	)

	CallbackDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "callback_processing_duration_seconds",
			Help:    "Duration of M-Pesa callback processing",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2, 5},
		},
	)

	PushDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_dispatch_total",
			Help: "Total number of push notifications dispatched",
		},
		[]string{"trigger", "status"},
	)
)
