package serverApp

import (
	"context"
	"fmt"
	"time"

	"refund-relay/internal/pkg/logger"
	refundService "refund-relay/internal/service/refund"

	"github.com/panjf2000/ants/v2"
)

const janitorInterval = time.Minute

// NewPool creates the shared worker pool. Submit fails fast with
// ants.ErrPoolOverload when every worker is busy; callers fall back to a
// goroutine or skip the task.
func NewPool(size int) (*ants.Pool, error) {
	poolOpts := ants.Options{
		ExpiryDuration: time.Hour,
		Nonblocking:    true,
		PanicHandler: func(i interface{}) {
			logger.Error.Printf("Worker panic: %v\n", i)
		},
	}

	pool, err := ants.NewPool(size, ants.WithOptions(poolOpts))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	return pool, nil
}

// InitWorker runs the session janitor until ctx is done. Each sweep is
// submitted to pool.
func InitWorker(ctx context.Context, pool *ants.Pool, refund refundService.IService) error {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info.Println("Session janitor shutting down...")
			return nil
		case <-ticker.C:
			err := pool.Submit(func() {
				if n := refund.SweepSessions(); n > 0 {
					logger.Debug.Printf("Swept %d expired sessions", n)
				}
			})
			if err != nil {
				logger.Warning.Printf("Failed to submit session sweep: %v", err)
			}
		}
	}
}
