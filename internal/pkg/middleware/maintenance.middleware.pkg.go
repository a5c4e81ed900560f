package middleware

import (
	"context"
	"errors"
	"net/http"

	types "refund-relay/internal/common/type"
	"refund-relay/internal/pkg/helper"
	"refund-relay/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

var ErrMaintenance = errors.New("service is under maintenance")

// MaintenanceGuard answers 503 while isDisabled reports true.
func MaintenanceGuard(isDisabled func(ctx context.Context) bool, sink metrics.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isDisabled(c.Request.Context()) {
			c.Next()
			return
		}

		if sink != nil {
			sink.SubmissionRejected(metrics.RejectMaintenance)
		}
		send := c.MustGet("send").(func(r *types.Response))
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusServiceUnavailable,
			Message: ErrMaintenance.Error(),
			Error:   ErrMaintenance,
		}))
	}
}
