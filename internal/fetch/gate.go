package fetch

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate enforces a minimum interval between successive external calls. It is
// a cooperative rate limit for the hosts we fetch from, expressed as a
// limiter rather than an unconditional sleep so it composes if callers ever
// run concurrently.
type Gate struct {
	limiter *rate.Limiter
}

// NewGate creates a Gate with the given minimum interval between calls.
// A non-positive interval yields a gate that never waits.
func NewGate(interval time.Duration) *Gate {
	if interval <= 0 {
		return &Gate{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Gate{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the next call is allowed or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}
