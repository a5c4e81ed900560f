package refund

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	e.POST("/v1/notify", h.Notify)
	e.POST("/notify", h.Notify)

	refunds := e.Group("/v1/refunds", h.guard)

	refunds.GET("/banks", h.Banks)
	refunds.POST("/sessions", h.CreateSession)
	refunds.GET("/sessions/:id", h.GetSession)
	refunds.DELETE("/sessions/:id", h.DeleteSession)
	refunds.PATCH("/sessions/:id", h.UpdateFields)
	refunds.PUT("/sessions/:id/attachment", h.SetAttachment)
	refunds.DELETE("/sessions/:id/attachment", h.ClearAttachment)
	refunds.POST("/sessions/:id/next", h.Next)
	refunds.POST("/sessions/:id/prev", h.Prev)
	refunds.POST("/sessions/:id/submit", h.Submit)
}
