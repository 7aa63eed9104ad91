// Package services contains server-side business logic: account
// registration and login, and the company registration and listing
// workflows. Services own transaction boundaries and translate repository
// errors into the sentinels from internal/common.
package services

import (
	"context"
	"time"
)

// boundedContext applies the per-request storage deadline. A zero timeout
// leaves ctx untouched.
func boundedContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
