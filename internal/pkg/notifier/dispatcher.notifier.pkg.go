package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"refund-relay/internal/common/enum"
	"refund-relay/internal/pkg/helper"
	"refund-relay/internal/pkg/logger"
	"refund-relay/internal/pkg/metrics"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every dispatch, measured from the moment Dispatch is
// called.
const DefaultTimeout = 30 * time.Second

// Dispatcher fans one message out to every target and waits for all of them.
// It keeps no per-call state, so one instance serves all requests.
type Dispatcher struct {
	sender  Sender
	pool    *ants.Pool
	timeout time.Duration
	metrics metrics.Sink
}

type Option func(*Dispatcher)

// WithPool runs attempts on a shared worker pool instead of bare goroutines.
func WithPool(pool *ants.Pool) Option {
	return func(d *Dispatcher) { d.pool = pool }
}

func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

func WithMetrics(sink metrics.Sink) Option {
	return func(d *Dispatcher) {
		if sink != nil {
			d.metrics = sink
		}
	}
}

func New(sender Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sender:  sender,
		timeout: DefaultTimeout,
		metrics: metrics.NewNoopSink(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Timeout is the dispatch bound in effect.
func (d *Dispatcher) Timeout() time.Duration {
	return d.timeout
}

// Dispatch delivers msg to every target concurrently. Per-target failures are
// folded into the report; the only error returned is a *ConfigError, raised
// before any target is contacted.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message, targets []Target) (*Report, error) {
	for _, t := range targets {
		if missing := t.missing(); len(missing) > 0 {
			return nil, &ConfigError{Target: t.Name, Missing: missing}
		}
	}

	id := NewReportID()
	msg = msg.normalized()
	start := time.Now()
	// One deadline for the whole fan-out; time spent waiting for a worker
	// counts against it.
	deadline := start.Add(d.timeout)

	d.metrics.DispatchesInFlightIncr()
	defer d.metrics.DispatchesInFlightDecr()

	outcomes := make([]Outcome, len(targets))
	var wg sync.WaitGroup
	for i, t := range targets {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			outcomes[i] = d.attempt(ctx, deadline, t, msg)
		}
		if err := d.run(task); err != nil {
			outcomes[i] = Outcome{
				Target: t.Name,
				Kind:   enum.TRANSPORT,
				Reason: fmt.Sprintf("schedule attempt: %v", err),
			}
			wg.Done()
		}
	}
	wg.Wait()

	report := NewReport(id, outcomes)
	elapsed := time.Since(start)
	d.metrics.DispatchCompleted(report.Status.ToString(), elapsed)
	d.log(report, elapsed)

	return report, nil
}

// run prefers the pool but never waits on it: an overloaded pool hands the
// task to a plain goroutine.
func (d *Dispatcher) run(task func()) error {
	if d.pool == nil {
		go task()
		return nil
	}
	err := d.pool.Submit(task)
	if errors.Is(err, ants.ErrPoolOverload) {
		go task()
		return nil
	}
	return err
}

// attempt owns its own context so a slow target never cancels its siblings.
// A task picked up after the deadline records a timeout without sending.
func (d *Dispatcher) attempt(ctx context.Context, deadline time.Time, t Target, msg Message) (out Outcome) {
	targetCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	start := time.Now()
	out.Target = t.Name

	defer func() {
		if r := recover(); r != nil {
			out.Success = false
			out.Kind = enum.TRANSPORT
			out.Reason = fmt.Sprintf("sender panic: %v", r)
		}
		elapsed := time.Since(start)
		out.DurationMS = helper.DurationMS(elapsed)

		result := metrics.ResultSuccess
		if !out.Success {
			result = out.Kind.ToString()
		}
		d.metrics.TargetAttemptCompleted(t.Name, result, elapsed)
	}()

	if !start.Before(deadline) {
		out.Kind, out.Reason = enum.TIMEOUT, ErrTimeout.Error()
		return out
	}

	if err := d.sender.Send(targetCtx, t, msg); err != nil {
		out.Kind, out.Reason = Classify(targetCtx, err)
		return out
	}
	out.Success = true
	return out
}

func (d *Dispatcher) log(report *Report, elapsed time.Duration) {
	l := logger.L().With(
		zap.String("report_id", report.ID),
		zap.String("status", report.Status.ToString()),
	)
	for _, o := range report.Failed() {
		l.Warn("target failed",
			zap.String("target", o.Target),
			zap.String("kind", o.Kind.ToString()),
			zap.String("reason", o.Reason),
			zap.Int64("duration_ms", o.DurationMS),
		)
	}
	l.Info("dispatch settled",
		zap.Int("targets", len(report.Outcomes)),
		zap.Int("failed", len(report.Failed())),
		zap.Duration("elapsed", elapsed),
	)
}

// NewReportID returns a fresh "rpt_" prefixed nanoid.
func NewReportID() string {
	id, err := gonanoid.New(12)
	if err != nil {
		return fmt.Sprintf("rpt_%d", time.Now().UnixNano())
	}
	return "rpt_" + id
}
