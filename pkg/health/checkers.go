package health

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck flags a goroutine leak: unhealthy when the goroutine
// count exceeds threshold.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if n := runtime.NumGoroutine(); n > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", n, threshold)
		}
		return nil
	}
}

// CounterCheck reports unhealthy when the counted value exceeds max. Used
// to cap live session counts.
func CounterCheck(count func() int, max int, what string) CheckFunc {
	return func(_ context.Context) error {
		if n := count(); n > max {
			return errors.Errorf("%s count %d exceeds limit %d", what, n, max)
		}
		return nil
	}
}
