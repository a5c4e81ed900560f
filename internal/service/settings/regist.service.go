package settings

import (
	"context"
	"sync"
	"time"

	types "refund-relay/internal/common/type"
	"refund-relay/internal/repository"
)

type Service struct {
	ctx           context.Context
	rp            repository.IRepository
	adminPassword string

	// updateMu serializes read-modify-write cycles on the settings record.
	updateMu sync.Mutex
}

type IService interface {
	// IsNotificationDisabled is the gate read before every dispatch.
	IsNotificationDisabled(ctx context.Context) bool
	IsWebDisabled(ctx context.Context) bool

	GetSettings() *types.Response
	UpdateSettings(req *UpdateSettingsRequest) *types.Response
	Login(req *LoginRequest) *types.Response
}

func NewService(ctx context.Context, rp repository.IRepository, adminPassword string) IService {
	return &Service{
		ctx:           ctx,
		rp:            rp,
		adminPassword: adminPassword,
	}
}

// Request/Response DTOs

// UpdateSettingsRequest only applies the flags that are present.
type UpdateSettingsRequest struct {
	TelegramDisabled *bool `json:"telegramDisabled"`
	WebDisabled      *bool `json:"webDisabled"`
}

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
