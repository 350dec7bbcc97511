package ratelimit

import (
	"math"
	"time"
)

// bucket is a token bucket. It is not safe for concurrent use on its own;
// the Limiter serializes access.
type bucket struct {
	capacity float64
	rate     float64 // tokens per second
	tokens   float64
	last     time.Time
	lastUsed time.Time
}

func newBucket(rule Rule, now time.Time) *bucket {
	capacity := float64(rule.capacity())
	return &bucket{
		capacity: capacity,
		rate:     float64(rule.Limit) / rule.Window.Seconds(),
		tokens:   capacity,
		last:     now,
		lastUsed: now,
	}
}

func (b *bucket) refill(now time.Time) {
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = math.Min(b.capacity, b.tokens+elapsed*b.rate)
	}
	b.last = now
}

// take consumes one token when available. wait is how long until the next
// token when the request was refused.
func (b *bucket) take(now time.Time) (ok bool, remaining int, full time.Time, wait time.Duration) {
	b.refill(now)
	b.lastUsed = now

	if b.tokens >= 1 {
		b.tokens--
		ok = true
	} else {
		wait = b.secondsToDuration((1 - b.tokens) / b.rate)
	}

	full = now.Add(b.secondsToDuration((b.capacity - b.tokens) / b.rate))
	return ok, int(b.tokens), full, wait
}

func (b *bucket) secondsToDuration(s float64) time.Duration {
	if s <= 0 || math.IsInf(s, 0) || math.IsNaN(s) {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
