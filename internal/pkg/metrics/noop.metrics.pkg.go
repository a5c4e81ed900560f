package metrics

import "time"

// NoopSink is used when metrics are disabled to avoid nil checks.
type NoopSink struct{}

func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (n *NoopSink) TargetAttemptCompleted(target, result string, duration time.Duration) {}
func (n *NoopSink) DispatchCompleted(status string, duration time.Duration)             {}
func (n *NoopSink) DispatchesInFlightIncr()                                             {}
func (n *NoopSink) DispatchesInFlightDecr()                                             {}
func (n *NoopSink) SubmissionRejected(reason string)                                    {}
func (n *NoopSink) SessionsActive(count int)                                            {}
