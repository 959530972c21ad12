package schedule

import (
	"context"
	"time"
)

// NextOccurrence returns the first instant at or after now whose wall
// clock reads hour:minute:second in now's location.
func NextOccurrence(now time.Time, hour, minute, second int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, second, 0, now.Location())
	if next.Before(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// WaitUntil sleeps until the next occurrence of the wall-clock time, or
// returns the context error if canceled first.
func WaitUntil(ctx context.Context, hour, minute, second int) error {
	timer := time.NewTimer(time.Until(NextOccurrence(time.Now(), hour, minute, second)))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
