package helper

import (
	"net/http"

	types "refund-relay/internal/common/type"
	"refund-relay/internal/pkg/logger"
)

// ParseResponse fills the defaults every handler relies on: a status code,
// a message, and a log line for server-side failures.
func ParseResponse(r *types.Response) *types.Response {
	if r == nil {
		r = &types.Response{Code: http.StatusInternalServerError}
	}

	if r.Code == 0 {
		if r.Error != nil {
			r.Code = http.StatusInternalServerError
		} else {
			r.Code = http.StatusOK
		}
	}

	if r.Message == "" {
		r.Message = http.StatusText(r.Code)
	}

	if r.Error != nil && r.Code >= http.StatusInternalServerError {
		logger.Error.Printf("%s: %v", r.Message, r.Error)
	}

	return r
}

// ToResponseAPI converts a service response to the JSON envelope.
func ToResponseAPI(r *types.Response) types.ResponseAPI {
	out := types.ResponseAPI{
		Status:  r.Code,
		Message: r.Message,
		Data:    r.Data,
	}
	if r.Error != nil {
		out.Error = r.Error.Error()
	}
	return out
}
