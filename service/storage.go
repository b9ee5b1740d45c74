package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/satheeshds/invoicing/models"
	"github.com/satheeshds/invoicing/observability"
)

// bounded runs storage calls under a per-call deadline.
type bounded struct {
	timeout time.Duration
	metrics *observability.Metrics
}

// do runs fn with a context bounded by the storage timeout. A deadline hit is
// reported as models.ErrStorageTimeout; domain errors pass through unchanged.
func (b bounded) do(ctx context.Context, fn func(context.Context) error) error {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	err := fn(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		b.metrics.StorageFailed("timeout")
		return fmt.Errorf("%w: %v", models.ErrStorageTimeout, err)
	case errors.Is(err, models.ErrStorage):
		b.metrics.StorageFailed("error")
	}
	return err
}
