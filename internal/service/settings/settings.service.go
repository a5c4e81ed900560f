package settings

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"refund-relay/internal/common/models"
	types "refund-relay/internal/common/type"
	"refund-relay/internal/pkg/helper"
	"refund-relay/internal/pkg/jwt"
	"refund-relay/internal/pkg/logger"
)

var (
	ErrAdminDisabled   = errors.New("settings administration is disabled")
	ErrInvalidPassword = errors.New("invalid password")
)

// IsNotificationDisabled fails open: a store that cannot be read counts as
// notifications enabled.
func (s *Service) IsNotificationDisabled(ctx context.Context) bool {
	return s.read(ctx).TelegramDisabled
}

// IsWebDisabled fails open like IsNotificationDisabled.
func (s *Service) IsWebDisabled(ctx context.Context) bool {
	return s.read(ctx).WebDisabled
}

func (s *Service) read(ctx context.Context) *models.Setting {
	setting, err := s.rp.Settings.Get(ctx)
	if err != nil {
		logger.Warning.Printf("settings: read from %s failed, using defaults: %v", s.rp.Settings.Store().ToString(), err)
		return models.DefaultSetting()
	}
	return setting
}

func (s *Service) GetSettings() *types.Response {
	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: s.read(s.ctx),
	})
}

// UpdateSettings applies only the flags present in req. Concurrent updates
// touching different flags both survive.
func (s *Service) UpdateSettings(req *UpdateSettingsRequest) *types.Response {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	setting, err := s.rp.Settings.Get(s.ctx)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to read settings",
			Error:   err,
		})
	}

	if req.TelegramDisabled != nil {
		setting.TelegramDisabled = *req.TelegramDisabled
	}
	if req.WebDisabled != nil {
		setting.WebDisabled = *req.WebDisabled
	}

	if err := s.rp.Settings.Save(s.ctx, setting); err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to save settings",
			Error:   err,
		})
	}

	logger.Info.Printf("settings updated: telegramDisabled=%t webDisabled=%t", setting.TelegramDisabled, setting.WebDisabled)

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "Settings updated successfully",
		Data:    setting,
	})
}

// Login checks the admin password on the server and hands out a short-lived
// token for settings writes. Without ADMIN_PASSWORD nobody can log in.
func (s *Service) Login(req *LoginRequest) *types.Response {
	if s.adminPassword == "" {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusForbidden,
			Message: ErrAdminDisabled.Error(),
			Error:   ErrAdminDisabled,
		})
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.adminPassword)) != 1 {
		logger.Warning.Println("settings: rejected admin login")
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusUnauthorized,
			Message: ErrInvalidPassword.Error(),
			Error:   ErrInvalidPassword,
		})
	}

	token, exp, err := jwt.GenerateToken(types.AdminWithAuth{Subject: "admin", Role: "admin"})
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to issue token",
			Error:   err,
		})
	}

	return helper.ParseResponse(&types.Response{
		Code:    http.StatusOK,
		Message: "Login successful",
		Data:    LoginResponse{Token: token, ExpiresAt: *exp},
	})
}
