package notifier

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"refund-relay/internal/common/enum"
	types "refund-relay/internal/common/type"
	"refund-relay/internal/pkg/telegram"

	"github.com/panjf2000/ants/v2"
)

type sendFunc func(ctx context.Context, target Target, msg Message) error

type fakeSender struct {
	mu    sync.Mutex
	calls []Message
	fns   map[string]sendFunc
}

func newFakeSender(fns map[string]sendFunc) *fakeSender {
	return &fakeSender{fns: fns}
}

func (f *fakeSender) Send(ctx context.Context, target Target, msg Message) error {
	f.mu.Lock()
	f.calls = append(f.calls, msg)
	f.mu.Unlock()

	if fn, ok := f.fns[target.Name]; ok {
		return fn(ctx, target, msg)
	}
	return nil
}

func (f *fakeSender) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func blockUntilDone(ctx context.Context, _ Target, _ Message) error {
	<-ctx.Done()
	return ctx.Err()
}

func twoTargets() []Target {
	return []Target{
		{Name: "A", Token: "token-a", ChatID: "1"},
		{Name: "B", Token: "token-b", ChatID: "2"},
	}
}

func TestDispatchAllDelivered(t *testing.T) {
	sender := newFakeSender(nil)
	d := New(sender)

	report, err := d.Dispatch(context.Background(), Message{Text: "hello"}, twoTargets())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Success || report.Status != enum.DELIVERED {
		t.Fatalf("expected delivered, got %+v", report)
	}
	if len(report.Outcomes) != 2 || report.Outcomes[0].Target != "A" || report.Outcomes[1].Target != "B" {
		t.Fatalf("outcomes out of order: %+v", report.Outcomes)
	}
	if sender.callCount() != 2 {
		t.Fatalf("expected 2 sends, got %d", sender.callCount())
	}
	if report.ID == "" {
		t.Fatal("expected a report id")
	}
}

func TestDispatchPartialWhenOneTargetTimesOut(t *testing.T) {
	sender := newFakeSender(map[string]sendFunc{"B": blockUntilDone})
	d := New(sender, WithTimeout(50*time.Millisecond))

	start := time.Now()
	report, err := d.Dispatch(context.Background(), Message{Text: "hello"}, twoTargets())
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Success || report.Status != enum.PARTIAL {
		t.Fatalf("expected partial failure, got %+v", report)
	}
	if !report.Outcomes[0].Success {
		t.Fatalf("expected A to succeed, got %+v", report.Outcomes[0])
	}
	b := report.Outcomes[1]
	if b.Success || b.Kind != enum.TIMEOUT || b.Reason != "timeout" {
		t.Fatalf("expected B timeout, got %+v", b)
	}
	if elapsed > 2*time.Second {
		t.Fatalf("dispatch exceeded the per-target bound: %v", elapsed)
	}
}

func TestDispatchAllTimeoutsRunConcurrently(t *testing.T) {
	sender := newFakeSender(map[string]sendFunc{"A": blockUntilDone, "B": blockUntilDone})
	d := New(sender, WithTimeout(200*time.Millisecond))

	start := time.Now()
	report, _ := d.Dispatch(context.Background(), Message{Text: "x"}, twoTargets())
	elapsed := time.Since(start)

	if report.Status != enum.FAILED {
		t.Fatalf("expected failed, got %s", report.Status)
	}
	// sequential sends would take at least twice the bound
	if elapsed >= 400*time.Millisecond {
		t.Fatalf("targets were not contacted concurrently: %v", elapsed)
	}
}

func TestDispatchZeroTargets(t *testing.T) {
	d := New(newFakeSender(nil))

	report, err := d.Dispatch(context.Background(), Message{Text: "x"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Success || report.Status != enum.DELIVERED || len(report.Outcomes) != 0 {
		t.Fatalf("expected vacuous success, got %+v", report)
	}
}

func TestDispatchMissingCredentialsSendsNothing(t *testing.T) {
	sender := newFakeSender(nil)
	d := New(sender)

	targets := []Target{
		{Name: "A", Token: "token-a", ChatID: "1"},
		{Name: "B", Token: "", ChatID: "2"},
	}
	report, err := d.Dispatch(context.Background(), Message{Text: "x"}, targets)
	if report != nil {
		t.Fatalf("expected no report, got %+v", report)
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.Target != "B" || len(cfgErr.Missing) != 1 || cfgErr.Missing[0] != "token" {
		t.Fatalf("unexpected config error: %+v", cfgErr)
	}
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatal("expected ConfigError to unwrap to ErrMissingCredentials")
	}
	if sender.callCount() != 0 {
		t.Fatalf("expected no sends, got %d", sender.callCount())
	}
}

func TestDispatchClassifiesFailures(t *testing.T) {
	sender := newFakeSender(map[string]sendFunc{
		"A": func(context.Context, Target, Message) error {
			return &telegram.APIError{StatusCode: 400, ErrorCode: 400, Description: "Bad Request: chat not found"}
		},
		"B": func(context.Context, Target, Message) error {
			return errors.New("post: dial tcp: connection refused")
		},
	})
	d := New(sender)

	report, err := d.Dispatch(context.Background(), Message{Text: "x"}, twoTargets())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Status != enum.FAILED || report.Success {
		t.Fatalf("expected failed, got %+v", report)
	}

	a, b := report.Outcomes[0], report.Outcomes[1]
	if a.Kind != enum.REJECTED || a.Reason != "Bad Request: chat not found" {
		t.Fatalf("unexpected outcome for A: %+v", a)
	}
	if b.Kind != enum.TRANSPORT || b.Reason != "post: dial tcp: connection refused" {
		t.Fatalf("unexpected outcome for B: %+v", b)
	}
	if len(report.Failed()) != 2 {
		t.Fatalf("expected 2 failed outcomes, got %d", len(report.Failed()))
	}
}

func TestDispatchSenderPanicBecomesTransportFailure(t *testing.T) {
	sender := newFakeSender(map[string]sendFunc{
		"A": func(context.Context, Target, Message) error { panic("boom") },
	})
	d := New(sender)

	report, _ := d.Dispatch(context.Background(), Message{Text: "x"}, twoTargets())
	if report.Status != enum.PARTIAL {
		t.Fatalf("expected partial, got %s", report.Status)
	}
	if report.Outcomes[0].Kind != enum.TRANSPORT {
		t.Fatalf("expected transport, got %+v", report.Outcomes[0])
	}
}

func TestDispatchNormalizesMessage(t *testing.T) {
	sender := newFakeSender(nil)
	d := New(sender)

	empty := &types.BufferedFile{}
	if _, err := d.Dispatch(context.Background(), Message{Text: "   ", Attachment: empty}, twoTargets()[:1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := sender.calls[0]
	if got.Text != EmptyMessagePlaceholder {
		t.Fatalf("expected placeholder text, got %q", got.Text)
	}
	if got.Attachment != nil {
		t.Fatal("expected empty attachment to be dropped")
	}
}

func TestDispatchOnPool(t *testing.T) {
	pool, err := ants.NewPool(1)
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	defer pool.Release()

	var sent atomic.Int32
	sender := newFakeSender(map[string]sendFunc{
		"A": func(context.Context, Target, Message) error { sent.Add(1); return nil },
		"B": func(context.Context, Target, Message) error { sent.Add(1); return nil },
	})
	d := New(sender, WithPool(pool))

	report, err := d.Dispatch(context.Background(), Message{Text: "x"}, twoTargets())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Success || sent.Load() != 2 {
		t.Fatalf("expected both targets on the pool, got %+v (sent %d)", report, sent.Load())
	}
}

func TestDispatchOnSaturatedPoolStaysWithinTimeout(t *testing.T) {
	tests := []struct {
		name        string
		nonblocking bool
	}{
		{name: "blocking pool", nonblocking: false},
		{name: "nonblocking pool", nonblocking: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := ants.NewPool(1, ants.WithNonblocking(tt.nonblocking))
			if err != nil {
				t.Fatalf("new pool: %v", err)
			}
			defer pool.Release()

			sender := newFakeSender(map[string]sendFunc{
				"A": blockUntilDone,
				"B": blockUntilDone,
			})
			timeout := 200 * time.Millisecond
			d := New(sender, WithPool(pool), WithTimeout(timeout))

			start := time.Now()
			report, err := d.Dispatch(context.Background(), Message{Text: "x"}, twoTargets())
			elapsed := time.Since(start)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if elapsed > timeout+150*time.Millisecond {
				t.Fatalf("dispatch took %v with timeout %v", elapsed, timeout)
			}
			if report.Status != enum.FAILED {
				t.Fatalf("expected failed, got %s", report.Status)
			}
			for _, o := range report.Outcomes {
				if o.Kind != enum.TIMEOUT {
					t.Fatalf("expected timeout for %s, got %+v", o.Target, o)
				}
			}
		})
	}
}

func TestDispatchOnReleasedPool(t *testing.T) {
	pool, err := ants.NewPool(1)
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	pool.Release()

	sender := newFakeSender(nil)
	d := New(sender, WithPool(pool))

	report, err := d.Dispatch(context.Background(), Message{Text: "x"}, twoTargets())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Status != enum.FAILED || sender.callCount() != 0 {
		t.Fatalf("expected failed report without sends, got %+v", report)
	}
	if report.Outcomes[0].Kind != enum.TRANSPORT {
		t.Fatalf("expected transport kind, got %+v", report.Outcomes[0])
	}
}

func TestTimeoutOption(t *testing.T) {
	if got := New(newFakeSender(nil)).Timeout(); got != DefaultTimeout {
		t.Fatalf("expected default %s, got %s", DefaultTimeout, got)
	}
	if got := New(newFakeSender(nil), WithTimeout(0)).Timeout(); got != DefaultTimeout {
		t.Fatalf("zero timeout must keep the default, got %s", got)
	}
	if got := New(newFakeSender(nil), WithTimeout(5*time.Second)).Timeout(); got != 5*time.Second {
		t.Fatalf("expected 5s, got %s", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status enum.DispatchStatusEnum
		want   int
	}{
		{"config error", &ConfigError{Target: "A", Missing: []string{"token"}}, "", 500},
		{"delivered", nil, enum.DELIVERED, 200},
		{"disabled", nil, enum.DISABLED, 200},
		{"partial", nil, enum.PARTIAL, 502},
		{"failed", nil, enum.FAILED, 502},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err, tt.status); got != tt.want {
				t.Fatalf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
