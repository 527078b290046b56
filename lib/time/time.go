package time

import (
	"context"
	"time"
)

// WithTimeout returns context.WithTimeout(ctx, timeout). A timeout of zero or less means
// none.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
