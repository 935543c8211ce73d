package utils

import (
	"context"
	"time"
)

// RunOnInterval calls fn once immediately and then once every interval until
// ctx is done.  It blocks until then.  A call to fn that runs longer than the
// interval delays the next call rather than overlapping with it.
func RunOnInterval(ctx context.Context, fn func(), interval time.Duration) {
	timer := time.NewTicker(interval)
	defer timer.Stop()

	fn()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			fn()
		}
	}
}
