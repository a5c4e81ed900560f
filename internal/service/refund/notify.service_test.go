package refund

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"refund-relay/internal/common/enum"
	"refund-relay/internal/common/models"
	types "refund-relay/internal/common/type"
	"refund-relay/internal/pkg/logger"
	"refund-relay/internal/pkg/notifier"
	"refund-relay/internal/pkg/rabbitmq"
	"refund-relay/internal/pkg/wizard"
	"refund-relay/internal/repository"
	settingsRepo "refund-relay/internal/repository/settings"
	settingsService "refund-relay/internal/service/settings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeDispatcher struct {
	mu      sync.Mutex
	calls   []notifier.Message
	report  func(id string, targets []notifier.Target) *notifier.Report
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeDispatcher) Dispatch(_ context.Context, msg notifier.Message, targets []notifier.Target) (*notifier.Report, error) {
	f.mu.Lock()
	f.calls = append(f.calls, msg)
	f.mu.Unlock()

	if f.entered != nil {
		close(f.entered)
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.report != nil {
		return f.report("rpt_test", targets), nil
	}
	outcomes := make([]notifier.Outcome, len(targets))
	for i, t := range targets {
		outcomes[i] = notifier.Outcome{Target: t.Name, Success: true}
	}
	return notifier.NewReport("rpt_test", outcomes), nil
}

func (f *fakeDispatcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []*rabbitmq.Message
	done chan struct{}
}

func (f *fakePublisher) Publish(_ context.Context, msg *rabbitmq.Message) error {
	f.mu.Lock()
	f.sent = append(f.sent, msg)
	f.mu.Unlock()
	if f.done != nil {
		f.done <- struct{}{}
	}
	return nil
}

var testTargets = []notifier.Target{
	{Name: "bot1", Token: "t1", ChatID: "1"},
	{Name: "bot2", Token: "t2", ChatID: "2"},
}

type fixture struct {
	svc        IService
	dispatcher *fakeDispatcher
	settings   *settingsRepo.MemoryRepo
}

func newFixture(d *fakeDispatcher, pub AuditPublisher) *fixture {
	repo := settingsRepo.NewMemoryRepo()
	settings := settingsService.NewService(context.Background(), repository.IRepository{Settings: repo}, "")
	svc := NewService(context.Background(), Dependencies{
		Settings:   settings,
		Dispatcher: d,
		Targets:    testTargets,
		Steps:      wizard.DefaultSteps(true),
		Publisher:  pub,
	})
	return &fixture{svc: svc, dispatcher: d, settings: repo}
}

func (f *fixture) disableNotifications(t *testing.T) {
	t.Helper()
	if err := f.settings.Save(context.Background(), &models.Setting{TelegramDisabled: true}); err != nil {
		t.Fatal(err)
	}
}

func reportOf(t *testing.T, res *types.Response) *notifier.Report {
	t.Helper()
	report, ok := res.Data.(*notifier.Report)
	if !ok {
		t.Fatalf("expected a report, got %T", res.Data)
	}
	return report
}

func TestNotifyDelivered(t *testing.T) {
	f := newFixture(&fakeDispatcher{}, nil)

	res := f.svc.Notify(context.Background(), Compose(budi()), nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", res.Code, res.Message)
	}
	report := reportOf(t, res)
	if !report.Success || report.Status != enum.DELIVERED || len(report.Outcomes) != 2 {
		t.Fatalf("unexpected report %+v", report)
	}

	sent := f.dispatcher.calls[0].Text
	for _, want := range []string{"Budi", "TT-1", "0021234567"} {
		if !strings.Contains(sent, want) {
			t.Fatalf("message misses %q:\n%s", want, sent)
		}
	}
}

func TestNotifyDisabledNeverDispatches(t *testing.T) {
	pub := &fakePublisher{done: make(chan struct{}, 1)}
	f := newFixture(&fakeDispatcher{}, pub)
	f.disableNotifications(t)

	res := f.svc.Notify(context.Background(), "hello", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	report := reportOf(t, res)
	if !report.Success || report.Status != enum.DISABLED {
		t.Fatalf("expected disabled success, got %+v", report)
	}
	if f.dispatcher.callCount() != 0 {
		t.Fatal("dispatcher must not be invoked while disabled")
	}

	select {
	case <-pub.done:
	case <-time.After(time.Second):
		t.Fatal("expected an audit event")
	}
}

func TestNotifyDisabledIsLoggedDistinctly(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := logger.L()
	logger.Use(zap.New(core))
	t.Cleanup(func() { logger.Use(prev) })

	f := newFixture(&fakeDispatcher{}, nil)
	f.disableNotifications(t)
	f.svc.Notify(context.Background(), "hello", nil)

	entries := logs.FilterMessage("dispatch skipped, notifications disabled").All()
	if len(entries) != 1 {
		t.Fatalf("expected one skip entry, got %d", len(entries))
	}
	if status := entries[0].ContextMap()["status"]; status != "disabled" {
		t.Fatalf("expected status=disabled, got %v", status)
	}
}

func TestNotifyMisconfigured(t *testing.T) {
	d := &fakeDispatcher{err: &notifier.ConfigError{Target: "bot2", Missing: []string{"token"}}}
	f := newFixture(d, nil)

	res := f.svc.Notify(context.Background(), "hello", nil)
	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
	if reportOf(t, res).Status != enum.MISCONFIGURED {
		t.Fatal("expected misconfigured status")
	}
	if !errors.Is(res.Error, notifier.ErrMissingCredentials) {
		t.Fatalf("expected missing credentials error, got %v", res.Error)
	}
}

func TestNotifyPartialFailureIsUpstreamError(t *testing.T) {
	d := &fakeDispatcher{report: func(id string, _ []notifier.Target) *notifier.Report {
		return notifier.NewReport(id, []notifier.Outcome{
			{Target: "bot1", Success: true},
			{Target: "bot2", Kind: enum.TIMEOUT, Reason: "timeout"},
		})
	}}
	f := newFixture(d, nil)

	res := f.svc.Notify(context.Background(), "hello", nil)
	if res.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", res.Code)
	}
	if !strings.Contains(res.Message, "bot2 (timeout)") {
		t.Fatalf("message should name the failed target: %s", res.Message)
	}
}

// walk drives a fresh session through every step.
func walk(t *testing.T, svc IService) string {
	t.Helper()

	res := svc.CreateSession()
	if res.Code != http.StatusCreated {
		t.Fatalf("create: %d", res.Code)
	}
	id := res.Data.(SessionResponse).ID

	d := budi()
	res = svc.UpdateFields(id, UpdateFieldsRequest{
		"fullName":          d.FullName,
		"phoneNumber":       d.PhoneNumber,
		"receiptNumber":     d.ReceiptNumber,
		"address":           d.Address,
		"bankName":          d.BankName,
		"bankAccountNumber": d.BankAccountNumber,
		"bankAccountHolder": d.BankAccountHolder,
		"agreed":            true,
	})
	if res.Code != http.StatusOK {
		t.Fatalf("update: %d %v", res.Code, res.Error)
	}

	res = svc.SetAttachment(id, pngHeader(t))
	if res.Code != http.StatusOK {
		t.Fatalf("attachment: %d %v", res.Code, res.Error)
	}

	for i := 0; i < 4; i++ {
		res = svc.Next(id)
		if moved := res.Data.(SessionResponse).Moved; moved == nil || !*moved {
			t.Fatalf("step %d did not advance", i+1)
		}
	}
	return id
}

func TestSubmitBudiScenario(t *testing.T) {
	f := newFixture(&fakeDispatcher{}, nil)
	id := walk(t, f.svc)

	res := f.svc.Submit(context.Background(), id)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", res.Code, res.Message)
	}
	report := reportOf(t, res)
	if !report.Success || len(report.Outcomes) != 2 {
		t.Fatalf("unexpected report %+v", report)
	}

	msg := f.dispatcher.calls[0]
	for _, want := range []string{"Budi", "TT-1", "0021234567", "Telah Disetujui"} {
		if !strings.Contains(msg.Text, want) {
			t.Fatalf("message misses %q", want)
		}
	}
	if !msg.Attachment.HasContent() {
		t.Fatal("expected the proof image to be attached")
	}

	state := f.svc.GetSession(id).Data.(SessionResponse)
	if !state.Completed || state.Draft.FullName != "" {
		t.Fatalf("draft should be discarded after success, got %+v", state.State)
	}
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	d := &fakeDispatcher{report: func(id string, _ []notifier.Target) *notifier.Report {
		return notifier.NewReport(id, []notifier.Outcome{
			{Target: "bot1", Kind: enum.REJECTED, Reason: "Bad Request: chat not found"},
			{Target: "bot2", Kind: enum.TRANSPORT, Reason: "connection refused"},
		})
	}}
	f := newFixture(d, nil)
	id := walk(t, f.svc)

	res := f.svc.Submit(context.Background(), id)
	if res.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", res.Code)
	}

	state := f.svc.GetSession(id).Data.(SessionResponse)
	if state.Step != 5 || state.Draft.FullName != "Budi" || state.Completed {
		t.Fatalf("draft should stay editable, got %+v", state.State)
	}
}

func TestSubmitRejectsDraftEditedOnLastStep(t *testing.T) {
	f := newFixture(&fakeDispatcher{}, nil)
	id := walk(t, f.svc)

	if res := f.svc.UpdateFields(id, UpdateFieldsRequest{"fullName": ""}); res.Code != http.StatusOK {
		t.Fatalf("update: %d %v", res.Code, res.Error)
	}
	if res := f.svc.ClearAttachment(id); res.Code != http.StatusOK {
		t.Fatalf("clear attachment: %d %v", res.Code, res.Error)
	}

	res := f.svc.Submit(context.Background(), id)
	if res.Code != http.StatusConflict || !errors.Is(res.Error, wizard.ErrGateClosed) {
		t.Fatalf("expected 409 gate closed, got %d %v", res.Code, res.Error)
	}
	if f.dispatcher.callCount() != 0 {
		t.Fatal("an incomplete draft must never reach the dispatcher")
	}

	state := res.Data.(SessionResponse)
	if state.Step != 5 || state.CanAdvance || len(state.Missing) != 2 {
		t.Fatalf("expected both missing fields reported, got %+v", state.State)
	}
}

func TestSubmitBeforeLastStep(t *testing.T) {
	f := newFixture(&fakeDispatcher{}, nil)
	id := f.svc.CreateSession().Data.(SessionResponse).ID

	res := f.svc.Submit(context.Background(), id)
	if res.Code != http.StatusConflict || !errors.Is(res.Error, wizard.ErrNotFinalStep) {
		t.Fatalf("expected 409 not final step, got %d %v", res.Code, res.Error)
	}
	if f.dispatcher.callCount() != 0 {
		t.Fatal("dispatcher must not run")
	}
}

func TestSubmitSingleFlight(t *testing.T) {
	d := &fakeDispatcher{block: make(chan struct{}), entered: make(chan struct{})}
	f := newFixture(d, nil)
	id := walk(t, f.svc)

	first := make(chan *types.Response, 1)
	go func() { first <- f.svc.Submit(context.Background(), id) }()
	<-d.entered

	res := f.svc.Submit(context.Background(), id)
	if res.Code != http.StatusConflict || !errors.Is(res.Error, wizard.ErrSubmissionInFlight) {
		t.Fatalf("expected 409 in flight, got %d %v", res.Code, res.Error)
	}

	close(d.block)
	if res := <-first; res.Code != http.StatusOK {
		t.Fatalf("first submit: %d", res.Code)
	}
	if d.callCount() != 1 {
		t.Fatalf("expected exactly one dispatch, got %d", d.callCount())
	}
}

func TestUpdateFieldsRejectsUnknownAtomically(t *testing.T) {
	f := newFixture(&fakeDispatcher{}, nil)
	id := f.svc.CreateSession().Data.(SessionResponse).ID

	res := f.svc.UpdateFields(id, UpdateFieldsRequest{"fullName": "Budi", "nickname": "B", "attachment": "x"})
	if res.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.Code)
	}
	if !strings.Contains(res.Error.Error(), "attachment, nickname") {
		t.Fatalf("unexpected error %v", res.Error)
	}
	if state := f.svc.GetSession(id).Data.(SessionResponse); state.Draft.FullName != "" {
		t.Fatal("no field may be applied when one is invalid")
	}
}

func TestUnknownSession(t *testing.T) {
	f := newFixture(&fakeDispatcher{}, nil)

	for _, id := range []string{"not-a-uuid", "7d4f4a52-1f8e-4b7a-9a55-2f1d7d0f8c11"} {
		if res := f.svc.GetSession(id); res.Code != http.StatusNotFound {
			t.Fatalf("GetSession(%s) = %d, want 404", id, res.Code)
		}
	}
	if res := f.svc.DeleteSession("not-a-uuid"); res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestSessionsExpire(t *testing.T) {
	f := newFixture(&fakeDispatcher{}, nil)
	svc := f.svc.(*Service)

	now := time.Now()
	svc.sessions.now = func() time.Time { return now }
	id := svc.CreateSession().Data.(SessionResponse).ID

	now = now.Add(defaultSessionTTL + time.Second)
	if removed := svc.SweepSessions(); removed != 1 {
		t.Fatalf("expected 1 expired session, got %d", removed)
	}
	if res := svc.GetSession(id); res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after expiry, got %d", res.Code)
	}
}

func TestSessionTTLSlides(t *testing.T) {
	f := newFixture(&fakeDispatcher{}, nil)
	svc := f.svc.(*Service)

	now := time.Now()
	svc.sessions.now = func() time.Time { return now }
	id := svc.CreateSession().Data.(SessionResponse).ID

	now = now.Add(defaultSessionTTL - time.Minute)
	if res := svc.GetSession(id); res.Code != http.StatusOK {
		t.Fatalf("expected live session, got %d", res.Code)
	}
	now = now.Add(defaultSessionTTL - time.Minute)
	if removed := svc.SweepSessions(); removed != 0 {
		t.Fatalf("touched session must survive, removed %d", removed)
	}
}

func TestSetAttachmentRejectsNonImage(t *testing.T) {
	f := newFixture(&fakeDispatcher{}, nil)
	id := f.svc.CreateSession().Data.(SessionResponse).ID

	res := f.svc.SetAttachment(id, formFile(t, "notes.txt", []byte("plain text")))
	if res.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.Code)
	}
}

func TestBanks(t *testing.T) {
	f := newFixture(&fakeDispatcher{}, nil)
	banks := f.svc.Banks().Data.(BanksResponse).Banks
	if len(banks) != 13 || banks[0] != "BCA" || banks[12] != "ShopeePay" {
		t.Fatalf("unexpected banks %v", banks)
	}
}

// 1x1 PNG
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func pngHeader(t *testing.T) *multipart.FileHeader {
	return formFile(t, "bukti.png", pngBytes)
}

func formFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write(content)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPut, "/", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatal(err)
	}
	return req.MultipartForm.File["file"][0]
}
