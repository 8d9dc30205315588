// Package metrics provides the centralized Prometheus registry for the
// survivor pool service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	WorkflowRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bracket_survivor",
		Name:      "workflow_runs_total",
		Help:      "Total workflow runs by terminal status",
	}, []string{"status"})
	PicksRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bracket_survivor",
		Name:      "picks_recorded_total",
		Help:      "Total survivor picks recorded",
	})
	PicksRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bracket_survivor",
		Name:      "picks_rejected_total",
		Help:      "Total pick recordings rejected by the pool rules",
	})
	DataSourceErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bracket_survivor",
		Name:      "datasource_errors_total",
		Help:      "Total degraded data source fetches by source",
	}, []string{"source"})
	SchedulerTicksSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bracket_survivor",
		Name:      "scheduler_ticks_skipped_total",
		Help:      "Hourly ticks skipped because the previous run was still in flight",
	})
)

// Gauge metrics
var (
	LastEliminationRisk = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bracket_survivor",
		Name:      "last_elimination_risk",
		Help:      "Elimination risk of the most recent recommendation",
	})
	LastCandidateCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bracket_survivor",
		Name:      "last_candidate_count",
		Help:      "Legal candidate count in the most recent decision",
	})
)

// Registry returns the global metrics registry, creating and populating it
// on first use.
func Registry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			WorkflowRunsTotal,
			PicksRecordedTotal,
			PicksRejectedTotal,
			DataSourceErrorsTotal,
			SchedulerTicksSkippedTotal,
			LastEliminationRisk,
			LastCandidateCount,
		)
	})
	return registry
}

// Handler returns the HTTP handler serving the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}
