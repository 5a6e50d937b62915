package context

import (
	"context"
	"testing"
	"time"
)

// WithTest caps ctx at the test's deadline, less one second so cleanup can
// still run. Without a test deadline, ctx is returned as is.
func WithTest(ctx context.Context, t *testing.T) (context.Context, func()) {
	if deadline, ok := t.Deadline(); ok {
		return context.WithDeadline(ctx, deadline.Add(-time.Second))
	}
	return ctx, func() {}
}
