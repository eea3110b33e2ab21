package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// retry runs fn up to attempts times, doubling the delay after each failure.
// It returns the last error, or the context error if ctx ends while waiting.
func retry(ctx context.Context, attempts int, delay time.Duration, op string, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		slog.Warn("Operation failed, retrying", "operation", op, "attempt", attempt, "error", err, "backoff", delay)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}

	return fmt.Errorf("%s failed after %d attempts: %w", op, attempts, err)
}
