package settings

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	settings := e.Group("/v1/settings")

	settings.GET("", h.GetSettings)
	settings.POST("/login", h.Login)
	settings.PUT("", h.auth, h.UpdateSettings)
}
