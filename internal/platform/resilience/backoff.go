package resilience

import (
	"context"
	"time"
)

// Backoff returns base doubled per completed attempt, capped at limit.
func Backoff(attempt int, base, limit time.Duration) time.Duration {
	if attempt < 1 || base <= 0 {
		return base
	}
	wait := base
	for i := 0; i < attempt; i++ {
		wait *= 2
		if limit > 0 && wait >= limit {
			return limit
		}
	}
	return wait
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
