// Package metrics provides Prometheus instrumentation for the CC
// controller: FSM dispatch counts, ROSE operation traffic, erase
// reasons, and end-to-end CC record lifetime.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Label constants shared across the metric vectors below.
const (
	LabelDialect   = "dialect"
	LabelRole      = "role"
	LabelEvent     = "event"
	LabelOperation = "operation"
	LabelDirection = "direction"
	LabelReason    = "reason"
	LabelOutcome   = "outcome"
)

// Direction constants for ROSE operation traffic.
const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

// Outcome constants for FSM dispatch results.
const (
	OutcomeHandled  = "handled"
	OutcomeSpurious = "spurious"
	OutcomeNoFSM    = "no_fsm"
)

// Metrics holds every Prometheus collector the controller touches. A nil
// *Metrics is safe to call methods on: every method no-ops, so callers
// never need a feature-flag check at the call site.
type Metrics struct {
	eventsDispatchedTotal *prometheus.CounterVec
	roseOperationsTotal   *prometheus.CounterVec
	eraseTotal            *prometheus.CounterVec
	recordLifetime        *prometheus.HistogramVec
	recordsActive         *prometheus.GaugeVec

	registered bool
}

// New creates and, if registry is non-nil, registers the controller's
// metrics.
func New(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		eventsDispatchedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pricc",
				Subsystem: "fsm",
				Name:      "events_dispatched_total",
				Help:      "Total number of FSM events dispatched, by dialect/role/event/outcome.",
			},
			[]string{LabelDialect, LabelRole, LabelEvent, LabelOutcome},
		),

		roseOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pricc",
				Subsystem: "rose",
				Name:      "operations_total",
				Help:      "Total number of ROSE operations sent or received, by dialect/operation/direction.",
			},
			[]string{LabelDialect, LabelOperation, LabelDirection},
		),

		eraseTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pricc",
				Subsystem: "records",
				Name:      "erase_total",
				Help:      "Total number of CC records torn down, by dialect/reason.",
			},
			[]string{LabelDialect, LabelReason},
		),

		recordLifetime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "pricc",
				Subsystem: "records",
				Name:      "lifetime_seconds",
				Help:      "Time from CC record creation to destruction.",
				Buckets:   []float64{1, 5, 15, 30, 60, 300, 900, 1800, 3600, 14400},
			},
			[]string{LabelDialect},
		),

		recordsActive: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "pricc",
				Subsystem: "records",
				Name:      "active",
				Help:      "Number of CC records currently live in the pool.",
			},
			[]string{LabelDialect},
		),
	}

	if registry != nil {
		registry.MustRegister(
			m.eventsDispatchedTotal,
			m.roseOperationsTotal,
			m.eraseTotal,
			m.recordLifetime,
			m.recordsActive,
		)
		m.registered = true
	}
	return m
}

// ObserveDispatch records one FSM event dispatch.
func (m *Metrics) ObserveDispatch(dialect, role, event, outcome string) {
	if m == nil {
		return
	}
	m.eventsDispatchedTotal.WithLabelValues(dialect, role, event, outcome).Inc()
}

// ObserveROSEOperation records one ROSE invoke/result/error sent or
// received.
func (m *Metrics) ObserveROSEOperation(dialect, operation, direction string) {
	if m == nil {
		return
	}
	m.roseOperationsTotal.WithLabelValues(dialect, operation, direction).Inc()
}

// ObserveErase records a record teardown and its reason.
func (m *Metrics) ObserveErase(dialect, reason string) {
	if m == nil {
		return
	}
	m.eraseTotal.WithLabelValues(dialect, reason).Inc()
}

// ObserveLifetime records the time from record creation to destruction.
func (m *Metrics) ObserveLifetime(dialect string, lifetime time.Duration) {
	if m == nil {
		return
	}
	m.recordLifetime.WithLabelValues(dialect).Observe(lifetime.Seconds())
}

// SetActiveRecords sets the current live-record gauge for a dialect.
func (m *Metrics) SetActiveRecords(dialect string, count float64) {
	if m == nil {
		return
	}
	m.recordsActive.WithLabelValues(dialect).Set(count)
}
