package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"refund-relay/internal/common/enum"
	"refund-relay/internal/pkg/telegram"
)

var (
	// ErrMissingCredentials marks a target configured without token or chat id.
	ErrMissingCredentials = errors.New("missing bot credentials")
	// ErrTimeout is the reason recorded for a target that ran out of time.
	ErrTimeout = errors.New("timeout")
)

// ConfigError aborts a dispatch before any network I/O.
type ConfigError struct {
	Target  string
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("target %s: %s (%s)", e.Target, ErrMissingCredentials, strings.Join(e.Missing, ", "))
}

func (e *ConfigError) Unwrap() error {
	return ErrMissingCredentials
}

// Classify folds a per-target error into a failure kind and a human-readable
// reason. targetCtx is the context the attempt ran under; its deadline
// decides timeouts even when the transport wrapped the error differently.
func Classify(targetCtx context.Context, err error) (enum.FailureKindEnum, string) {
	var apiErr *telegram.APIError
	switch {
	case errors.As(err, &apiErr):
		return enum.REJECTED, apiErr.Error()
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(targetCtx.Err(), context.DeadlineExceeded):
		return enum.TIMEOUT, ErrTimeout.Error()
	default:
		return enum.TRANSPORT, err.Error()
	}
}

// HTTPStatus maps a dispatch error or report status to the status class the
// caller-facing endpoint answers with: local configuration problems are 500,
// third-party failures are 502.
func HTTPStatus(err error, status enum.DispatchStatusEnum) int {
	switch {
	case err != nil:
		return http.StatusInternalServerError
	case status.IsSuccess():
		return http.StatusOK
	default:
		return http.StatusBadGateway
	}
}
