package metrics

import "time"

// Sink records dispatch and submission metrics.
// All methods are fire-and-forget: implementations MUST NOT block or propagate errors.
type Sink interface {
	// Dispatcher metrics
	TargetAttemptCompleted(target, result string, duration time.Duration)
	DispatchCompleted(status string, duration time.Duration)
	DispatchesInFlightIncr()
	DispatchesInFlightDecr()

	// Wizard metrics
	SubmissionRejected(reason string)
	SessionsActive(count int)
}

// Result labels for TargetAttemptCompleted.
const (
	ResultSuccess = "success"
)

// Rejection reasons for SubmissionRejected.
const (
	RejectInFlight     = "in_flight"
	RejectGateClosed   = "gate_closed"
	RejectNotFinalStep = "not_final_step"
	RejectMaintenance  = "maintenance"
)
