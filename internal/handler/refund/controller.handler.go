package refund

import (
	"context"
	"errors"
	"net/http"

	types "refund-relay/internal/common/type"
	"refund-relay/internal/pkg/attachment"
	"refund-relay/internal/pkg/helper"
	refundService "refund-relay/internal/service/refund"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx           context.Context
	refundService refundService.IService
	guard         gin.HandlerFunc
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
}

// NewHandler wires the refund routes. guard runs in front of the wizard
// routes and may be nil.
func NewHandler(ctx context.Context, refundService refundService.IService, guard gin.HandlerFunc) IHandler {
	if guard == nil {
		guard = func(c *gin.Context) { c.Next() }
	}
	return &Handler{
		ctx:           ctx,
		refundService: refundService,
		guard:         guard,
	}
}

// Notify godoc
// @Summary      Relay a refund message
// @Description  Sends the message (and optional proof image) to every configured Telegram bot in parallel
// @Tags         Notify
// @Accept       multipart/form-data
// @Produce      json
// @Param        pesan  formData  string  true   "Message text (alias: message)"
// @Param        file   formData  file    false  "Proof image"
// @Success      200    {object}  types.ResponseAPI{data=notifier.Report}
// @Failure      422    {object}  types.ResponseAPI
// @Failure      500    {object}  types.ResponseAPI{data=notifier.Report}
// @Failure      502    {object}  types.ResponseAPI{data=notifier.Report}
// @Router       /v1/notify [post]
func (h *Handler) Notify(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	message := c.PostForm("pesan")
	if message == "" {
		message = c.PostForm("message")
	}

	var file *types.BufferedFile
	header, err := c.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid multipart form",
			Error:   err,
		}))
		return
	default:
		enc, err := attachment.FromMultipart(header)
		if err != nil && !errors.Is(err, attachment.ErrEmptyFile) {
			send(helper.ParseResponse(&types.Response{
				Code:    attachment.HTTPStatus(err),
				Message: "Invalid attachment",
				Error:   err,
			}))
			return
		}
		if enc != nil {
			file = enc.File
		}
	}

	send(h.refundService.Notify(c.Request.Context(), message, file))
}

// Banks godoc
// @Summary      List payout institutions
// @Tags         Refunds
// @Produce      json
// @Success      200  {object}  types.ResponseAPI{data=refundService.BanksResponse}
// @Router       /v1/refunds/banks [get]
func (h *Handler) Banks(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.refundService.Banks())
}

// CreateSession godoc
// @Summary      Start a refund form
// @Tags         Refunds
// @Produce      json
// @Success      201  {object}  types.ResponseAPI{data=refundService.SessionResponse}
// @Router       /v1/refunds/sessions [post]
func (h *Handler) CreateSession(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.refundService.CreateSession())
}

// GetSession godoc
// @Summary      Current form state
// @Tags         Refunds
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  types.ResponseAPI{data=refundService.SessionResponse}
// @Failure      404  {object}  types.ResponseAPI
// @Router       /v1/refunds/sessions/{id} [get]
func (h *Handler) GetSession(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.refundService.GetSession(c.Param("id")))
}

// DeleteSession godoc
// @Summary      Discard a draft
// @Tags         Refunds
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  types.ResponseAPI
// @Failure      404  {object}  types.ResponseAPI
// @Router       /v1/refunds/sessions/{id} [delete]
func (h *Handler) DeleteSession(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.refundService.DeleteSession(c.Param("id")))
}

// UpdateFields godoc
// @Summary      Set draft fields
// @Tags         Refunds
// @Accept       json
// @Produce      json
// @Param        id       path      string                             true  "Session ID"
// @Param        request  body      refundService.UpdateFieldsRequest  true  "Field values"
// @Success      200      {object}  types.ResponseAPI{data=refundService.SessionResponse}
// @Failure      400      {object}  types.ResponseAPI
// @Failure      422      {object}  types.ResponseAPI
// @Router       /v1/refunds/sessions/{id} [patch]
func (h *Handler) UpdateFields(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req refundService.UpdateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	send(h.refundService.UpdateFields(c.Param("id"), req))
}

// SetAttachment godoc
// @Summary      Upload the proof image
// @Tags         Refunds
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Session ID"
// @Param        file  formData  file    true  "Proof image"
// @Success      200   {object}  types.ResponseAPI{data=refundService.SessionResponse}
// @Failure      400   {object}  types.ResponseAPI
// @Failure      422   {object}  types.ResponseAPI
// @Router       /v1/refunds/sessions/{id}/attachment [put]
func (h *Handler) SetAttachment(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	header, err := c.FormFile("file")
	if err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "file is required",
			Error:   err,
		}))
		return
	}

	send(h.refundService.SetAttachment(c.Param("id"), header))
}

// ClearAttachment godoc
// @Summary      Remove the proof image
// @Tags         Refunds
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  types.ResponseAPI{data=refundService.SessionResponse}
// @Router       /v1/refunds/sessions/{id}/attachment [delete]
func (h *Handler) ClearAttachment(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.refundService.ClearAttachment(c.Param("id")))
}

// Next godoc
// @Summary      Go to the next step when the current one is complete
// @Tags         Refunds
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  types.ResponseAPI{data=refundService.SessionResponse}
// @Router       /v1/refunds/sessions/{id}/next [post]
func (h *Handler) Next(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.refundService.Next(c.Param("id")))
}

// Prev godoc
// @Summary      Go back one step
// @Tags         Refunds
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  types.ResponseAPI{data=refundService.SessionResponse}
// @Router       /v1/refunds/sessions/{id}/prev [post]
func (h *Handler) Prev(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.refundService.Prev(c.Param("id")))
}

// Submit godoc
// @Summary      Submit the refund request
// @Tags         Refunds
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  types.ResponseAPI{data=notifier.Report}
// @Failure      409  {object}  types.ResponseAPI{data=refundService.SessionResponse}
// @Failure      500  {object}  types.ResponseAPI{data=notifier.Report}
// @Failure      502  {object}  types.ResponseAPI{data=notifier.Report}
// @Router       /v1/refunds/sessions/{id}/submit [post]
func (h *Handler) Submit(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	send(h.refundService.Submit(c.Request.Context(), c.Param("id")))
}
