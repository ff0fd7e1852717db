package retry

import (
	"context"
	"time"
)

// Policy retries a call a fixed number of times with a doubling delay.
// A delay follows every failed attempt, including the last one.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	// Sleep waits for d or until ctx is done. Nil means a real timer.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnFailure is called after each failed attempt with the upcoming delay.
	OnFailure func(attempt int, delay time.Duration, err error)
}

func Default() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second}
}

// Delay returns the wait after the given zero-based failed attempt.
func (p Policy) Delay(attempt int) time.Duration {
	return p.BaseDelay << attempt
}

// Do runs fn until it succeeds or MaxAttempts is exhausted, returning the last error.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = timerSleep
	}

	var zero T
	var lastErr error
	for i := 0; i < attempts; i++ {
		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		wait := p.Delay(i)
		if p.OnFailure != nil {
			p.OnFailure(i+1, wait, err)
		}
		if err := sleep(ctx, wait); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}

func timerSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
