package retry

import (
	"context"
	"fmt"
	"time"
)

type Config struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     bool // double the delay after each failed attempt
}

// Synthesis is the retry contract for remote AI calls: 3 attempts, delay
// doubling from 1s.
var Synthesis = Config{MaxAttempts: 3, Delay: time.Second, Backoff: true}

func WithRetry(ctx context.Context, config Config, fn func() error) error {
	delay := config.Delay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		if attempt == config.MaxAttempts {
			return fmt.Errorf("failed after %d attempts: %w", config.MaxAttempts, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		if config.Backoff {
			delay *= 2
		}
	}

	return nil
}
