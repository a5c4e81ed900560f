package middleware

import (
	"net/http"

	"refund-relay/internal/pkg/helper"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// CorsMiddleware allows the origins listed in CORS_ALLOWED_ORIGINS
// (comma separated, "*" by default).
func CorsMiddleware() gin.HandlerFunc {
	origins := helper.ParseCommaSeperatedString(helper.GetEnv("CORS_ALLOWED_ORIGINS", "*"))
	anyOrigin := len(origins) == 0 || lo.Contains(origins, "*")

	return func(c *gin.Context) {
		if anyOrigin {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			c.Writer.Header().Add("Vary", "Origin")
			if origin := c.GetHeader("Origin"); lo.Contains(origins, origin) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
