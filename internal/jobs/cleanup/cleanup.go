package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type expiredTokenStore interface {
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// Job purges refresh-token rows whose expiry has passed. Expired
// tokens are already unusable; this keeps the table from growing
// without bound.
type Job struct {
	tokens expiredTokenStore
	now    func() time.Time
	logger *zap.Logger
}

func New(tokens expiredTokenStore, logger *zap.Logger) *Job {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		tokens: tokens,
		now:    time.Now,
		logger: logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.tokens == nil {
		return nil
	}

	deleted, err := j.tokens.DeleteExpired(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("cleanup expired refresh tokens: %w", err)
	}
	if deleted > 0 {
		j.logger.Info("cleanup expired refresh tokens completed", zap.Int64("deleted", deleted))
	}

	return nil
}

// Start runs the job on the given interval until ctx is cancelled.
func (j *Job) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := j.Run(ctx); err != nil {
					j.logger.Warn("refresh token cleanup failed", zap.Error(err))
				}
			}
		}
	}()
}
