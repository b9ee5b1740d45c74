package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/satheeshds/invoicing/models"
	"github.com/satheeshds/invoicing/observability"
	"github.com/satheeshds/invoicing/store"
)

// Allocator hands out serial numbers, preferring the smallest released number
// over growing past the current maximum.
//
// Claiming a number and inserting the invoice that uses it happen under one
// mutex, as do deleting an invoice and pooling its number, so a create in
// this process never sees a maximum or pool entry that a delete has only half
// applied. Other processes sharing the store are held off by the unique
// serial index; a number it rejects is dropped rather than pooled again.
type Allocator struct {
	bounded
	mu       sync.Mutex
	invoices store.InvoiceStore
	pool     store.SerialPool
	logger   *slog.Logger
}

// NewAllocator returns an allocator over the given stores.
func NewAllocator(invoices store.InvoiceStore, pool store.SerialPool, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Allocator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Allocator{
		bounded:  bounded{timeout: timeout, metrics: metrics},
		invoices: invoices,
		pool:     pool,
		logger:   logger,
	}
}

// Allocate returns the next serial number. A pooled number is removed from the
// pool for good.
func (a *Allocator) Allocate(ctx context.Context) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	n, _, err := a.allocate(ctx)
	return n, err
}

// serialAttempts bounds how many numbers one create tries when the store
// reports the allocated number as already taken.
const serialAttempts = 3

// WithSerial allocates a serial number and passes it to consume while still
// holding the allocation lock. If consume fails a reused number goes back to
// the pool, unless the store says the number is already held by an invoice:
// that number is dropped and another one allocated.
func (a *Allocator) WithSerial(ctx context.Context, consume func(ctx context.Context, serial int) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var err error
	for attempt := 0; attempt < serialAttempts; attempt++ {
		var (
			n      int
			reused bool
		)
		n, reused, err = a.allocate(ctx)
		if err != nil {
			return err
		}
		err = consume(ctx, n)
		if err == nil {
			return nil
		}
		if isSerialTaken(err) {
			a.logger.Warn("serial number already in use, dropping it",
				slog.Int("serial", n), slog.Bool("reused", reused))
			continue
		}
		if reused {
			a.release(context.WithoutCancel(ctx), n)
		}
		return err
	}
	return err
}

// WithRelease runs remove under the allocation lock and puts the serial
// number it returns back in the pool. No allocation can observe the gap
// between the invoice disappearing and its number entering the pool.
func (a *Allocator) WithRelease(ctx context.Context, remove func(ctx context.Context) (int, error)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	n, err := remove(ctx)
	if err != nil {
		return err
	}
	a.release(context.WithoutCancel(ctx), n)
	return nil
}

func isSerialTaken(err error) bool {
	var dup *models.DuplicateError
	return errors.As(err, &dup) && dup.Field == models.FieldSerialNumber
}

// allocate must be called with mu held.
func (a *Allocator) allocate(ctx context.Context) (int, bool, error) {
	var (
		n  int
		ok bool
	)
	err := a.do(ctx, func(ctx context.Context) error {
		var err error
		n, ok, err = a.pool.ClaimSmallest(ctx)
		return err
	})
	if err != nil {
		return 0, false, err
	}
	if ok {
		a.logger.Info("reusing serial number", slog.Int("serial", n))
		a.metrics.SerialAllocated(observability.SerialReused)
		return n, true, nil
	}

	var highest int
	err = a.do(ctx, func(ctx context.Context) error {
		var err error
		highest, err = a.invoices.MaxSerial(ctx)
		return err
	})
	if err != nil {
		return 0, false, err
	}
	n = highest + 1
	a.logger.Info("generating new serial number", slog.Int("serial", n))
	a.metrics.SerialAllocated(observability.SerialGenerated)
	return n, false, nil
}

// release returns n to the pool and must be called with mu held. Failures
// are logged and swallowed: losing a reuse opportunity never fails the caller.
func (a *Allocator) release(ctx context.Context, n int) {
	err := a.do(ctx, func(ctx context.Context) error {
		return a.pool.Release(ctx, n, time.Now().UTC())
	})
	if err != nil {
		a.logger.Warn("failed to release serial number", slog.Int("serial", n), slog.Any("error", err))
		return
	}
	a.logger.Info("serial number added to reuse pool", slog.Int("serial", n))
}
