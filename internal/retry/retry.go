package retry

import (
	"context"
	"fmt"
	"time"
)

// Config is a small retry policy: a total attempt count and a fixed delay
// between attempts. There is no backoff curve.
type Config struct {
	Attempts int
	Delay    time.Duration
}

// Do runs fn until it succeeds, the attempts are exhausted, or the context is
// cancelled. The final error is wrapped with the attempt count.
func Do(ctx context.Context, config Config, fn func() error) error {
	attempts := config.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	delay := config.Delay
	if delay <= 0 {
		delay = 200 * time.Millisecond
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("after %d attempt(s): %w", attempts, lastErr)
}
