package middleware

import (
	types "refund-relay/internal/common/type"
	"refund-relay/internal/pkg/helper"

	"github.com/gin-gonic/gin"
)

// ResponseInit installs the "send" function handlers answer through.
func ResponseInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		send := func(r *types.Response) {
			if r == nil || r.Code == 0 {
				r = helper.ParseResponse(r)
			}
			c.AbortWithStatusJSON(r.Code, helper.ToResponseAPI(r))
		}
		c.Set("send", send)
		c.Next()
	}
}
