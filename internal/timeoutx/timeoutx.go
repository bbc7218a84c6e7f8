// Package timeoutx provides the timeout combinator used at every external
// call boundary. The operation races a timer; when the timer wins, the
// operation's eventual result is discarded and an optional cleanup hook runs
// so the underlying subprocess or browser can be torn down best-effort.
package timeoutx

import (
	"context"
	"time"
)

// Run executes op with a deadline derived from ctx. When the deadline wins
// the race, Run returns onTimeout, fires cleanup (if any) in a goroutine and
// leaves op running in the background; its result is discarded.
func Run[T any](ctx context.Context, d time.Duration, onTimeout error, cleanup func(), op func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type outcome struct {
		val T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := op(ctx)
		done <- outcome{v, err}
	}()

	select {
	case out := <-done:
		return out.val, out.err
	case <-ctx.Done():
		if cleanup != nil {
			go cleanup()
		}
		var zero T
		if ctx.Err() == context.DeadlineExceeded {
			return zero, onTimeout
		}
		return zero, ctx.Err()
	}
}

// Do is Run for operations without a result value.
func Do(ctx context.Context, d time.Duration, onTimeout error, cleanup func(), op func(ctx context.Context) error) error {
	_, err := Run(ctx, d, onTimeout, cleanup, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
