package wizard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	types "refund-relay/internal/common/type"

	"github.com/samber/lo"
)

// SubmitFunc receives a copy of the draft once every gate passed.
type SubmitFunc func(ctx context.Context, draft Draft) error

// State is a point-in-time view of a machine for rendering.
type State struct {
	Draft      Draft   `json:"draft"`
	Step       int     `json:"step"`
	TotalSteps int     `json:"total_steps"`
	Title      string  `json:"title"`
	CanAdvance bool    `json:"can_advance"`
	Missing    []Field `json:"missing"`
	Submitting bool    `json:"submitting"`
	Completed  bool    `json:"completed"`
}

// Machine owns one draft and the active step. Every method is safe for
// concurrent use; the lock is never held while a submission runs.
type Machine struct {
	mu        sync.Mutex
	steps     []Step
	step      int
	draft     Draft
	completed bool

	inFlight atomic.Bool
}

func NewMachine(steps []Step) *Machine {
	if len(steps) == 0 {
		steps = DefaultSteps(true)
	}
	return &Machine{steps: steps, step: 1}
}

// SetField writes one value. Only the name is checked, never the value.
func (m *Machine) SetField(name Field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == FieldAgreed {
		agreed, err := strconv.ParseBool(strings.TrimSpace(value))
		m.touch()
		m.draft.Agreed = err == nil && agreed
		return nil
	}

	slot := m.draft.text(name)
	if slot == nil {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	m.touch()
	*slot = value
	return nil
}

func (m *Machine) SetConsent(agreed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touch()
	m.draft.Agreed = agreed
}

// SetAttachment replaces the attachment; nil clears it.
func (m *Machine) SetAttachment(file *types.BufferedFile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touch()
	m.draft.Attachment = file
}

// CanAdvance reports whether every required field of step is filled.
// Steps outside [1, N] never pass.
func (m *Machine) CanAdvance(step int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canAdvance(step)
}

// Advance moves one step forward when the current gate passes and the
// machine is not on the last step.
func (m *Machine) Advance() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step >= len(m.steps) || !m.canAdvance(m.step) {
		return false
	}
	m.step++
	return true
}

// Retreat moves one step back, stopping at the first step.
func (m *Machine) Retreat() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.step <= 1 {
		return false
	}
	m.step--
	return true
}

func (m *Machine) Current() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

func (m *Machine) Steps() []Step {
	return m.steps
}

func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := State{
		Draft:      m.draft,
		Step:       m.step,
		TotalSteps: len(m.steps),
		Title:      m.steps[m.step-1].Title,
		CanAdvance: m.canAdvance(m.step),
		Missing:    m.missing(m.step),
		Submitting: m.Submitting(),
		Completed:  m.completed,
	}
	// the last step gates submission, which needs every earlier gate too
	if m.step == len(m.steps) {
		state.Missing = m.missingUpTo(m.step)
		state.CanAdvance = len(state.Missing) == 0
	}
	return state
}

// Submit runs fn with a copy of the draft once every step's gate passes;
// fields edited after advancing are re-checked here. A second call while one is running
// fails fast with ErrSubmissionInFlight. On success the draft is discarded and
// the machine starts over; on failure it stays on the last step untouched.
func (m *Machine) Submit(ctx context.Context, fn SubmitFunc) error {
	if !m.inFlight.CompareAndSwap(false, true) {
		return ErrSubmissionInFlight
	}
	defer m.inFlight.Store(false)

	m.mu.Lock()
	if m.step != len(m.steps) {
		m.mu.Unlock()
		return ErrNotFinalStep
	}
	if open := m.firstOpenGate(); open > 0 {
		m.mu.Unlock()
		return fmt.Errorf("%w: step %d", ErrGateClosed, open)
	}
	draft := m.draft
	m.mu.Unlock()

	if err := fn(ctx, draft); err != nil {
		return err
	}

	m.mu.Lock()
	m.draft = Draft{}
	m.step = 1
	m.completed = true
	m.mu.Unlock()

	return nil
}

func (m *Machine) canAdvance(step int) bool {
	if step < 1 || step > len(m.steps) {
		return false
	}
	return len(m.missing(step)) == 0
}

func (m *Machine) missing(step int) []Field {
	if step < 1 || step > len(m.steps) {
		return nil
	}
	return lo.Filter(m.steps[step-1].Required, func(f Field, _ int) bool {
		return !m.draft.filled(f)
	})
}

// firstOpenGate returns the first step whose gate fails, or 0.
func (m *Machine) firstOpenGate() int {
	for step := 1; step <= len(m.steps); step++ {
		if !m.canAdvance(step) {
			return step
		}
	}
	return 0
}

func (m *Machine) missingUpTo(last int) []Field {
	var out []Field
	for step := 1; step <= last; step++ {
		out = append(out, m.missing(step)...)
	}
	return lo.Uniq(out)
}

// touch starts a fresh draft cycle after a completed submission.
func (m *Machine) touch() {
	m.completed = false
}

// Submitting reports whether a Submit call is running.
func (m *Machine) Submitting() bool {
	return m.inFlight.Load()
}
