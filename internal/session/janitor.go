package session

import (
	"context"
	"log/slog"
	"time"
)

// RunJanitor prunes sessions idle for longer than idle every interval
// until ctx is done.
func RunJanitor(ctx context.Context, logger *slog.Logger, store *Store, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Prune(idle); n > 0 {
				logger.InfoContext(ctx, "pruned idle sessions",
					"removed", n,
					"remaining", store.Len())
			}
		}
	}
}
