// Package clock holds the time source shared by the proof services and the
// sweep scheduler.
package clock

import (
	"context"
	"time"
)

// Precision is the resolution proof timestamps are stored with. The
// ClickHouse schema keeps DateTime64(3) so anything finer would not
// survive a round trip.
const Precision = time.Millisecond

// Now returns the current UTC time truncated to Precision.
func Now() time.Time {
	return time.Now().UTC().Truncate(Precision)
}

// SleepWithContext waits for d or returns early with ctx.Err(). A
// non-positive d only checks the context.
func SleepWithContext(ctx context.Context, d time.Duration) error {
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
