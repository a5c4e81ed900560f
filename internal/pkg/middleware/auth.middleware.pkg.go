package middleware

import (
	"net/http"

	types "refund-relay/internal/common/type"
	"refund-relay/internal/pkg/helper"
	"refund-relay/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware guards admin routes with the token issued by the settings
// login.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		send := c.MustGet("send").(func(r *types.Response))
		if token == "" {
			send(helper.ParseResponse(&types.Response{Code: http.StatusUnauthorized, Message: "token not found"}))
			return
		}

		admin, err := jwt.ValidateToken(token)
		if err != nil {
			send(helper.ParseResponse(&types.Response{Code: http.StatusUnauthorized, Message: "invalid token", Error: err}))
			return
		}

		c.Set("auth", *admin)
		c.Next()
	}
}
