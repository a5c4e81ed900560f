package notifier

import (
	"refund-relay/internal/common/enum"

	"github.com/samber/lo"
)

// Outcome is the result for one target.
type Outcome struct {
	Target     string               `json:"name"`
	Success    bool                 `json:"success"`
	Kind       enum.FailureKindEnum `json:"kind,omitempty"`
	Reason     string               `json:"reason,omitempty"`
	DurationMS int64                `json:"duration_ms"`
}

// Report aggregates one fan-out. Outcomes keep the configured target order.
type Report struct {
	ID       string                  `json:"id"`
	Success  bool                    `json:"success"`
	Status   enum.DispatchStatusEnum `json:"status"`
	Outcomes []Outcome               `json:"targets"`
}

// NewReport derives Success and Status from the outcomes. Zero outcomes is a
// delivered report.
func NewReport(id string, outcomes []Outcome) *Report {
	if outcomes == nil {
		outcomes = []Outcome{}
	}

	succeeded := lo.CountBy(outcomes, func(o Outcome) bool { return o.Success })

	status := enum.PARTIAL
	switch succeeded {
	case len(outcomes):
		status = enum.DELIVERED
	case 0:
		status = enum.FAILED
	}

	return &Report{
		ID:       id,
		Success:  status == enum.DELIVERED,
		Status:   status,
		Outcomes: outcomes,
	}
}

// DisabledReport is what callers return when the gate skipped dispatch.
func DisabledReport(id string) *Report {
	return &Report{
		ID:       id,
		Success:  true,
		Status:   enum.DISABLED,
		Outcomes: []Outcome{},
	}
}

// Failed returns the outcomes that did not succeed.
func (r *Report) Failed() []Outcome {
	return lo.Filter(r.Outcomes, func(o Outcome, _ int) bool { return !o.Success })
}

// MisconfiguredReport describes a dispatch refused before any I/O.
func MisconfiguredReport(id string) *Report {
	return &Report{
		ID:       id,
		Success:  false,
		Status:   enum.MISCONFIGURED,
		Outcomes: []Outcome{},
	}
}
