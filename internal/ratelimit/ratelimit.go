package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out submissions to honor the target platform's rate limit.
type Pacer interface {
	// Wait blocks until the next submission slot, or until ctx is done.
	Wait(ctx context.Context) error
}

// IntervalPacer allows one event per fixed interval. The first Wait passes
// immediately; later calls are spaced by the interval.
type IntervalPacer struct {
	limiter *rate.Limiter
}

// NewIntervalPacer creates a pacer allowing one event every interval.
func NewIntervalPacer(interval time.Duration) *IntervalPacer {
	return &IntervalPacer{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

var _ Pacer = (*IntervalPacer)(nil)

// Wait blocks until a token is available.
func (p *IntervalPacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
