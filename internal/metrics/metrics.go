package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	claimsSubsystem = "claims"

	submissionsTotal    = "submissions_total"
	transitionsTotal    = "wizard_transitions_total"
	incompleteClaims    = "incomplete_claims"
	eventsRecordedTotal = "events_recorded_total"

	// Labels
	outcomeLabel   = "outcome"
	stageLabel     = "stage"
	fromLabel      = "from"
	toLabel        = "to"
	eventTypeLabel = "type"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

/**
* Metrics definition
**/
var submissionsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: claimsSubsystem,
		Name:      submissionsTotal,
		Help:      "number of claim submissions by outcome and the stage that failed",
	},
	[]string{outcomeLabel, stageLabel},
)

var transitionsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: claimsSubsystem,
		Name:      transitionsTotal,
		Help:      "number of wizard step transitions",
	},
	[]string{fromLabel, toLabel},
)

var incompleteClaimsMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Subsystem: claimsSubsystem,
		Name:      incompleteClaims,
		Help:      "claims whose inserts stopped before the payment details were written",
	},
)

var eventsRecordedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: claimsSubsystem,
		Name:      eventsRecordedTotal,
		Help:      "number of claim events written to the audit log",
	},
	[]string{eventTypeLabel},
)

func IncreaseSubmissionsMetric(outcome, stage string) {
	submissionsTotalMetric.With(prometheus.Labels{
		outcomeLabel: outcome,
		stageLabel:   stage,
	}).Inc()
}

func IncreaseTransitionsMetric(from, to string) {
	transitionsTotalMetric.With(prometheus.Labels{
		fromLabel: from,
		toLabel:   to,
	}).Inc()
}

func UpdateIncompleteClaimsMetric(count int) {
	incompleteClaimsMetric.Set(float64(count))
}

func IncreaseEventsRecordedMetric(eventType string) {
	eventsRecordedTotalMetric.With(prometheus.Labels{eventTypeLabel: eventType}).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(submissionsTotalMetric)
	prometheus.MustRegister(transitionsTotalMetric)
	prometheus.MustRegister(incompleteClaimsMetric)
	prometheus.MustRegister(eventsRecordedTotalMetric)
}
