package refund

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"refund-relay/internal/common/enum"
	types "refund-relay/internal/common/type"
	"refund-relay/internal/pkg/helper"
	"refund-relay/internal/pkg/logger"
	"refund-relay/internal/pkg/metrics"
	"refund-relay/internal/pkg/notifier"
	"refund-relay/internal/pkg/rabbitmq"
	"refund-relay/internal/pkg/wizard"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	EventDispatched = "refund.dispatched"

	auditTimeout = 5 * time.Second
)

// errDeliveryFailed keeps the draft editable after a failed fan-out.
var errDeliveryFailed = errors.New("delivery failed")

func (s *Service) Notify(ctx context.Context, message string, file *types.BufferedFile) *types.Response {
	report, err := s.relay(ctx, message, file)
	return reportResponse(report, err)
}

// Submit runs the final wizard step: the draft is composed and relayed, and
// only a successful relay discards it.
func (s *Service) Submit(ctx context.Context, id string) *types.Response {
	sess, exp, res := s.lookup(id)
	if res != nil {
		return res
	}

	var (
		report   *notifier.Report
		relayErr error
	)
	err := sess.machine.Submit(ctx, func(ctx context.Context, draft wizard.Draft) error {
		report, relayErr = s.relay(ctx, Compose(draft), draft.Attachment)
		if relayErr != nil {
			return relayErr
		}
		if !report.Status.IsSuccess() {
			return errDeliveryFailed
		}
		return nil
	})

	switch {
	case errors.Is(err, wizard.ErrSubmissionInFlight):
		s.metrics.SubmissionRejected(metrics.RejectInFlight)
		return conflict(err, view(sess, exp))
	case errors.Is(err, wizard.ErrNotFinalStep):
		s.metrics.SubmissionRejected(metrics.RejectNotFinalStep)
		return conflict(err, view(sess, exp))
	case errors.Is(err, wizard.ErrGateClosed):
		s.metrics.SubmissionRejected(metrics.RejectGateClosed)
		return conflict(err, view(sess, exp))
	}

	return reportResponse(report, relayErr)
}

// relay consults the gate, then fans out. Only a configuration problem is
// returned as an error; delivery failures live in the report.
func (s *Service) relay(ctx context.Context, message string, file *types.BufferedFile) (*notifier.Report, error) {
	// the fan-out finishes even if the caller hangs up
	ctx = context.WithoutCancel(ctx)

	if s.settings.IsNotificationDisabled(ctx) {
		report := notifier.DisabledReport(notifier.NewReportID())
		logger.L().Info("dispatch skipped, notifications disabled",
			zap.String("report_id", report.ID),
			zap.String("status", report.Status.ToString()),
		)
		s.audit(report)
		return report, nil
	}

	report, err := s.dispatcher.Dispatch(ctx, notifier.Message{Text: message, Attachment: file}, s.targets)
	if err != nil {
		logger.L().Error("dispatch refused", zap.Error(err))
		report = notifier.MisconfiguredReport(notifier.NewReportID())
		s.audit(report)
		return report, err
	}

	s.audit(report)
	return report, nil
}

// audit publishes the report without blocking the caller.
func (s *Service) audit(report *notifier.Report) {
	if s.publisher == nil {
		return
	}

	event := auditEvent{
		ReportID: report.ID,
		Status:   report.Status,
		Success:  report.Success,
		Targets: lo.Map(report.Outcomes, func(o notifier.Outcome, _ int) auditTarget {
			return auditTarget{Name: o.Target, Success: o.Success, Kind: o.Kind}
		}),
		At: helper.TimeRightNow(),
	}

	publish := func() {
		msg, err := rabbitmq.NewEvent(EventDispatched, event, nil)
		if err != nil {
			logger.Warning.Printf("audit: build event: %v", err)
			return
		}
		ctx, cancel := context.WithTimeout(s.ctx, auditTimeout)
		defer cancel()
		if err := s.publisher.Publish(ctx, msg); err != nil {
			logger.Warning.Printf("audit: publish %s: %v", report.ID, err)
		}
	}

	if s.pool != nil {
		if err := s.pool.Submit(publish); err == nil {
			return
		}
	}
	go publish()
}

type auditTarget struct {
	Name    string               `json:"name"`
	Success bool                 `json:"success"`
	Kind    enum.FailureKindEnum `json:"kind,omitempty"`
}

type auditEvent struct {
	ReportID string                  `json:"report_id"`
	Status   enum.DispatchStatusEnum `json:"status"`
	Success  bool                    `json:"success"`
	Targets  []auditTarget           `json:"targets"`
	At       time.Time               `json:"at"`
}

func reportResponse(report *notifier.Report, err error) *types.Response {
	code := notifier.HTTPStatus(err, report.Status)

	var message string
	switch {
	case err != nil:
		message = "Notification targets are misconfigured"
	case report.Status == enum.DISABLED:
		message = "Notifications are disabled, nothing was sent"
	case report.Success:
		message = "Notification delivered to all targets"
	default:
		message = "Delivery failed for " + describeFailures(report)
		err = fmt.Errorf("%w: %s", errDeliveryFailed, describeFailures(report))
	}

	return helper.ParseResponse(&types.Response{
		Code:    code,
		Message: message,
		Data:    report,
		Error:   err,
	})
}

func describeFailures(report *notifier.Report) string {
	parts := lo.Map(report.Failed(), func(o notifier.Outcome, _ int) string {
		return fmt.Sprintf("%s (%s)", o.Target, o.Reason)
	})
	return strings.Join(parts, ", ")
}

func conflict(err error, data SessionResponse) *types.Response {
	return helper.ParseResponse(&types.Response{
		Code:    http.StatusConflict,
		Message: err.Error(),
		Data:    data,
		Error:   err,
	})
}
