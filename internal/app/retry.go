package app

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

// backoff returns the delay before retry number attempt (0-based):
// 250ms, 500ms, 1s, ... capped at 5s, plus up to 100ms of jitter.
func backoff(attempt int) time.Duration {
	base := 250 * time.Millisecond
	capDelay := 5 * time.Second

	delay := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	if delay > capDelay {
		delay = capDelay
	}

	return delay + time.Duration(rand.Intn(100))*time.Millisecond
}

// retry runs fn until it succeeds, attempts are exhausted, or ctx is done.
func retry(ctx context.Context, log *slog.Logger, what string, attempts int, fn func(context.Context) error) error {
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}

		if attempt == attempts-1 {
			break
		}

		delay := backoff(attempt)
		log.Warn("dependency not reachable, retrying", "dependency", what, "attempt", attempt+1, "delay", delay, "err", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
