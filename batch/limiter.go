// Package batch runs multiple conversation generations with bounded
// concurrency so a batch never exceeds the provider's parallel request
// budget.
package batch

import (
	"context"
	"fmt"
)

// Limiter bounds how many generations run at once.
type Limiter interface {
	Acquire(ctx context.Context) error
	Release()
}

// ChanLimiter implements Limiter with a buffered channel used as a
// counting semaphore: a successful send acquires a slot, a receive
// releases it.
type ChanLimiter struct {
	slots chan struct{}
}

// NewChanLimiter creates a Limiter allowing up to size concurrent holders.
// A size below 1 is treated as 1.
func NewChanLimiter(size int) Limiter {
	if size < 1 {
		size = 1
	}
	return &ChanLimiter{slots: make(chan struct{}, size)}
}

// Acquire blocks until a slot is free or the context is cancelled. An
// already-cancelled context never acquires, even when a slot is free.
func (l *ChanLimiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("batch.Acquire: %w", err)
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("batch.Acquire: %w", ctx.Err())
	case l.slots <- struct{}{}:
		return nil
	}
}

// Release frees a held slot. Releasing without a matching Acquire is a
// no-op rather than a panic.
func (l *ChanLimiter) Release() {
	select {
	case <-l.slots:
	default:
	}
}

var _ Limiter = (*ChanLimiter)(nil)
