package process

import (
	"context"
	"errors"
	"time"
)

// Exec runs command to completion on the calling goroutine and returns its
// output lines. Cancelling ctx stops the process within one poll slice.
func Exec(ctx context.Context, factory Factory, command []string, opts RunnerOptions, slice, grace time.Duration) ([]string, error) {
	r := NewRunner(factory, command, opts)
	err := r.Run(ctx, NewCancellationSignal(), slice, grace)
	if errors.Is(err, ErrCancelled) && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return r.Lines(), nil
}
