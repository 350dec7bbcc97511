// Package retry runs an operation with capped exponential backoff and jitter.
package retry

import (
	"context"
	"log"
	"math"
	"math/rand/v2"
	"time"

	"github.com/googleapis/gax-go/v2"
)

// Options controls the retry schedule.
type Options struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	// Jitter is the maximum extra delay as a fraction of the computed delay.
	Jitter float64
	// Retryable reports whether a failure may be retried. Nil retries everything.
	Retryable func(error) bool
	// Label tags log lines.
	Label string

	random func() float64
	sleep  func(context.Context, time.Duration) error
}

// DefaultOptions returns 3 retries starting at 1s, capped at 30s, with 10% jitter.
func DefaultOptions() Options {
	return Options{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
		Jitter:     0.1,
	}
}

// Delay returns the wait before the retry that follows failed attempt n
// (zero based), without jitter.
func (o Options) Delay(n int) time.Duration {
	d := float64(o.BaseDelay) * math.Pow(2, float64(n))
	if o.MaxDelay > 0 && d > float64(o.MaxDelay) {
		return o.MaxDelay
	}
	return time.Duration(d)
}

func (o Options) withJitter(d time.Duration) time.Duration {
	if o.Jitter <= 0 {
		return d
	}
	random := o.random
	if random == nil {
		random = rand.Float64
	}
	return d + time.Duration(random()*o.Jitter*float64(d))
}

// Do calls op up to MaxRetries+1 times, and always at least once; a negative
// MaxRetries counts as zero. When every attempt fails the error of
// the last attempt is returned unchanged. A cancelled context stops the
// schedule and returns the context error.
func Do[T any](ctx context.Context, op func(context.Context) (T, error), opts Options) (T, error) {
	sleep := opts.sleep
	if sleep == nil {
		sleep = gax.Sleep
	}
	label := opts.Label
	if label == "" {
		label = "retry"
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == opts.MaxRetries {
			break
		}
		if opts.Retryable != nil && !opts.Retryable(err) {
			break
		}

		delay := opts.withJitter(opts.Delay(attempt))
		log.Printf("[%s] attempt %d/%d failed: %v; retrying in %s", label, attempt+1, opts.MaxRetries+1, err, delay.Round(time.Millisecond))
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}
