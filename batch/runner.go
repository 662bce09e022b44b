package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sat8bit/taiwa/transcript"
)

// GenerateFunc produces one conversation. index identifies the slot in the
// batch, starting at zero.
type GenerateFunc func(ctx context.Context, index int) (*transcript.Conversation, error)

// Runner fans a fixed number of generations out over a Limiter and collects
// the results in batch order.
type Runner struct {
	limiter Limiter
}

// NewRunner creates a Runner with the given concurrency bound.
func NewRunner(concurrency int) *Runner {
	return &Runner{limiter: NewChanLimiter(concurrency)}
}

// Run executes generate count times. Results keep their batch order; a slot
// whose generation failed is nil in the returned slice, and all failures are
// joined into the returned error. A cancelled context stops slots that have
// not started yet.
func (r *Runner) Run(ctx context.Context, count int, generate GenerateFunc) ([]*transcript.Conversation, error) {
	results := make([]*transcript.Conversation, count)
	errs := make([]error, count)

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		if err := r.limiter.Acquire(ctx); err != nil {
			errs[i] = fmt.Errorf("batch.Run: slot %d: %w", i, err)
			break
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer r.limiter.Release()

			conv, err := generate(ctx, i)
			if err != nil {
				slog.Error("conversation generation failed", "index", i, "error", err)
				errs[i] = fmt.Errorf("batch.Run: slot %d: %w", i, err)
				return
			}
			results[i] = conv
		}(i)
	}
	wg.Wait()

	return results, errors.Join(errs...)
}
