// Package metrics provides Prometheus observability metrics for the triage
// scheduler. Each run either exposes them for scraping or pushes them to a
// Pushgateway, since the process is a short-lived batch job.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// RECONCILIATION METRICS - Decision Visibility
// =============================================================================

// DutyEventsCreated counts duty events created this run.
var DutyEventsCreated = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "reconcile",
	Name:      "duty_events_created_total",
	Help:      "Duty events created because no event existed for the scheduled date",
})

// DutyEventsExisting counts scheduled days already satisfied by an existing
// duty event. On an idempotent rerun every day lands here.
var DutyEventsExisting = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "reconcile",
	Name:      "duty_events_existing_total",
	Help:      "Scheduled days left untouched because a duty event already existed",
})

// HandoffEventsCreated counts hand-off events created this run.
var HandoffEventsCreated = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "reconcile",
	Name:      "handoff_events_created_total",
	Help:      "Hand-off events created between consecutive duty events",
})

// HandoffEventsUpdated counts hand-off events whose attendee list was
// corrected to match the computed set.
var HandoffEventsUpdated = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "reconcile",
	Name:      "handoff_events_updated_total",
	Help:      "Existing hand-off events whose attendees were replaced",
})

// HandoffEventsInSync counts hand-off events that already matched.
var HandoffEventsInSync = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "reconcile",
	Name:      "handoff_events_in_sync_total",
	Help:      "Existing hand-off events whose attendees already matched",
})

// DryRunSuppressed counts mutations suppressed by dry-run mode.
var DryRunSuppressed = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "reconcile",
	Name:      "dry_run_suppressed_total",
	Help:      "Create/update requests suppressed because dry-run mode was active",
})

// ReconcileDurationSeconds tracks time spent in one reconciliation pass.
var ReconcileDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "reconcile",
	Name:      "duration_seconds",
	Help:      "Time taken by one reconciliation pass",
	Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 15.0, 60.0},
})

// =============================================================================
// SCHEDULING METRICS - Run Shape
// =============================================================================

// WorkdaysInRange records how many business days the run covered.
var WorkdaysInRange = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "workdays_in_range",
	Help:      "Number of business days in the requested date range",
})

// RotationLength records the pairing cycle length for the roster.
var RotationLength = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "scheduler",
	Name:      "rotation_length",
	Help:      "Number of teams in one full pairing cycle",
})

// ParserErrorsTotal tracks parse errors by input kind.
var ParserErrorsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "parser",
	Name:      "errors_total",
	Help:      "Total parse errors by input kind",
}, []string{"input"})

// ResetGauges resets all gauges before a new run.
func ResetGauges() {
	WorkdaysInRange.Set(0)
	RotationLength.Set(0)
}
