package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// RateLimiter enforces a minimum interval between operations.
// A zero interval disables limiting.
type RateLimiter struct {
	ticker *time.Ticker
	first  chan struct{} // lets the first Wait pass immediately

	mu      sync.Mutex
	stopped bool
}

// New creates a new RateLimiter.
func New(interval time.Duration) *RateLimiter {
	rl := &RateLimiter{first: make(chan struct{}, 1)}
	if interval > 0 {
		rl.ticker = time.NewTicker(interval)
	}
	rl.first <- struct{}{}
	return rl
}

// Wait blocks until the next slot is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-r.first:
		return nil
	default:
	}
	if r.ticker == nil {
		return nil
	}

	select {
	case <-r.ticker.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop releases resources used by the RateLimiter. It is safe to call twice.
func (r *RateLimiter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.stopped && r.ticker != nil {
		r.ticker.Stop()
	}
	r.stopped = true
}
