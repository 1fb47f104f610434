package cleanup

import (
	"context"
	"time"

	"github.com/envirosync/envirosync-backend/internal/common/logger"
)

type ExpiredSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// Run sweeps expired session rows on a fixed interval until ctx is cancelled.
// The stores stay correct without it; this only reclaims storage.
func Run(ctx context.Context, sweeper ExpiredSweeper, interval time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := sweeper.SweepExpired(ctx)
			if err != nil {
				log.Errorf("session sweep failed: %v", err)
				continue
			}
			if deleted > 0 {
				log.Infof("session sweep: deleted %d expired sessions", deleted)
			}
		}
	}
}
