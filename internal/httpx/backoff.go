package httpx

import (
	"math"
	"math/rand"
	"time"
)

// Backoff computes jittered exponential delays between retry attempts.
// A Backoff is used by a single Do invocation and is not safe for
// concurrent use.
type Backoff struct {
	base   time.Duration
	max    time.Duration
	jitter float64
	rand   *rand.Rand
}

// NewBackoff returns a Backoff with the supplied parameters, substituting
// small defaults for non-positive values.
func NewBackoff(base, max time.Duration, jitter float64) *Backoff {
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	if max <= 0 {
		max = time.Second
	}
	if jitter < 0 {
		jitter = 0
	}
	return &Backoff{
		base:   base,
		max:    max,
		jitter: jitter,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ForAttempt returns the delay before retrying the given attempt (0-indexed).
func (b *Backoff) ForAttempt(attempt int) time.Duration {
	delay := b.base
	if attempt > 0 {
		scaled := time.Duration(float64(b.base) * math.Pow(2, float64(attempt)))
		if scaled <= 0 || scaled > b.max {
			scaled = b.max
		}
		delay = scaled
	}
	if b.jitter == 0 {
		return delay
	}
	factor := 1 + (b.rand.Float64()*2-1)*math.Min(b.jitter, 1)
	if factor < 0 {
		factor = 0
	}
	return time.Duration(float64(delay) * factor)
}
