package async

import (
	"context"
	"time"
)

// RunEvery runs the given function on a timer, stopping when ctx is
// canceled. It returns immediately; the ticking happens in a background
// goroutine.
func RunEvery(ctx context.Context, period time.Duration, f func()) {
	ticker := time.NewTicker(period)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				f()
			case <-ctx.Done():
				return
			}
		}
	}()
}
