// Package metrics exposes prometheus collectors for workflow executions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ExecutionsStarted  prometheus.Counter
	ExecutionsFinished *prometheus.CounterVec
	ExecutionDuration  prometheus.Histogram
	ActionFailures     *prometheus.CounterVec
}

// New registers the engine collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ExecutionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "crmflow",
			Name:      "executions_started_total",
			Help:      "Number of workflow executions started.",
		}),
		ExecutionsFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crmflow",
			Name:      "executions_finished_total",
			Help:      "Number of workflow executions finished, by terminal status.",
		}, []string{"status"}),
		ExecutionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crmflow",
			Name:      "execution_duration_seconds",
			Help:      "Wall-clock duration of workflow executions.",
			Buckets:   prometheus.DefBuckets,
		}),
		ActionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crmflow",
			Name:      "action_failures_total",
			Help:      "Number of failed actions, by action type.",
		}, []string{"action_type"}),
	}
}
