package settings

import (
	"context"
	"net/http"

	types "refund-relay/internal/common/type"
	"refund-relay/internal/pkg/helper"
	settingsService "refund-relay/internal/service/settings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx             context.Context
	settingsService settingsService.IService
	auth            gin.HandlerFunc
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
}

func NewHandler(ctx context.Context, settingsService settingsService.IService, auth gin.HandlerFunc) IHandler {
	return &Handler{
		ctx:             ctx,
		settingsService: settingsService,
		auth:            auth,
	}
}

// GetSettings godoc
// @Summary      Read the admin switches
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  types.ResponseAPI{data=models.Setting}
// @Router       /v1/settings [get]
func (h *Handler) GetSettings(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.settingsService.GetSettings())
}

// Login godoc
// @Summary      Exchange the admin password for a token
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        request  body      settingsService.LoginRequest  true  "Admin password"
// @Success      200      {object}  types.ResponseAPI{data=settingsService.LoginResponse}
// @Failure      401      {object}  types.ResponseAPI
// @Failure      403      {object}  types.ResponseAPI
// @Router       /v1/settings/login [post]
func (h *Handler) Login(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req settingsService.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	send(h.settingsService.Login(&req))
}

// UpdateSettings godoc
// @Summary      Change the admin switches
// @Description  Only the flags present in the body are applied
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      settingsService.UpdateSettingsRequest  true  "Flags"
// @Success      200      {object}  types.ResponseAPI{data=models.Setting}
// @Failure      401      {object}  types.ResponseAPI
// @Router       /v1/settings [put]
func (h *Handler) UpdateSettings(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req settingsService.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	send(h.settingsService.UpdateSettings(&req))
}
