// Package ctxutil provides context utility functions.
package ctxutil

import (
	"context"
	"fmt"
)

// Canceled checks if the context has been canceled or exceeded its deadline.
// Returns the context error if done (Canceled or DeadlineExceeded), nil otherwise.
// Pipeline stages call it at entry before doing any work.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}

// CanceledAt is Canceled with the stage name attached to the returned error.
func CanceledAt(ctx context.Context, stage string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", stage, err)
	}
	return nil
}
