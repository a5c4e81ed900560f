package refund

import (
	"context"
	"mime/multipart"
	"time"

	types "refund-relay/internal/common/type"
	"refund-relay/internal/pkg/metrics"
	"refund-relay/internal/pkg/notifier"
	"refund-relay/internal/pkg/rabbitmq"
	"refund-relay/internal/pkg/wizard"
	settingsService "refund-relay/internal/service/settings"

	"github.com/panjf2000/ants/v2"
)

// Dispatcher is the part of notifier.Dispatcher the service needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg notifier.Message, targets []notifier.Target) (*notifier.Report, error)
}

// AuditPublisher receives one event per settled submission.
type AuditPublisher interface {
	Publish(ctx context.Context, msg *rabbitmq.Message) error
}

type Dependencies struct {
	Settings   settingsService.IService
	Dispatcher Dispatcher
	Targets    []notifier.Target
	Steps      []wizard.Step
	SessionTTL time.Duration
	Metrics    metrics.Sink
	Publisher  AuditPublisher
	Pool       *ants.Pool
}

type Service struct {
	ctx        context.Context
	settings   settingsService.IService
	dispatcher Dispatcher
	targets    []notifier.Target
	sessions   *sessionStore
	metrics    metrics.Sink
	publisher  AuditPublisher
	pool       *ants.Pool
}

type IService interface {
	Banks() *types.Response

	CreateSession() *types.Response
	GetSession(id string) *types.Response
	DeleteSession(id string) *types.Response
	UpdateFields(id string, fields UpdateFieldsRequest) *types.Response
	SetAttachment(id string, header *multipart.FileHeader) *types.Response
	ClearAttachment(id string) *types.Response
	Next(id string) *types.Response
	Prev(id string) *types.Response
	Submit(ctx context.Context, id string) *types.Response

	// Notify relays a ready-made message, bypassing the wizard.
	Notify(ctx context.Context, message string, file *types.BufferedFile) *types.Response

	// SweepSessions drops expired drafts and returns how many were removed.
	SweepSessions() int
}

func NewService(ctx context.Context, deps Dependencies) IService {
	sink := deps.Metrics
	if sink == nil {
		sink = metrics.NewNoopSink()
	}
	return &Service{
		ctx:        ctx,
		settings:   deps.Settings,
		dispatcher: deps.Dispatcher,
		targets:    deps.Targets,
		sessions:   newSessionStore(deps.Steps, deps.SessionTTL),
		metrics:    sink,
		publisher:  deps.Publisher,
		pool:       deps.Pool,
	}
}

// Request/Response DTOs

// UpdateFieldsRequest maps field names to values. Text fields take strings;
// "agreed" takes a bool or any strconv.ParseBool spelling.
type UpdateFieldsRequest map[string]any

type SessionResponse struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
	Moved     *bool     `json:"moved,omitempty"`
	wizard.State

	Preview       string `json:"preview,omitempty"`
	OverSoftLimit bool   `json:"over_soft_limit,omitempty"`
}

type BanksResponse struct {
	Banks []string `json:"banks"`
}
