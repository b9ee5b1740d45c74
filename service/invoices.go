// Package service implements the invoice lifecycle on top of the storage
// ports: serial number allocation, payment bookkeeping and statistics.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/satheeshds/invoicing/models"
	"github.com/satheeshds/invoicing/observability"
	"github.com/satheeshds/invoicing/store"
)

// SummaryCache stores the last computed summary between writes.
// Summary reports the version it looked at; StoreSummary files a result under
// that version, so a summary computed before an Invalidate is never served.
type SummaryCache interface {
	Summary(ctx context.Context) (s models.Summary, version int64, ok bool, err error)
	StoreSummary(ctx context.Context, version int64, s models.Summary) error
	Invalidate(ctx context.Context) error
}

// Config tunes the service.
type Config struct {
	// StorageTimeout bounds every individual storage call. Zero disables it.
	StorageTimeout time.Duration
	// RecomputeOnFullUpdate re-derives transferAmount and status from the
	// payments after a full update of an invoice that has payments. When
	// false the client's values are stored as sent.
	RecomputeOnFullUpdate bool
}

// Option customises an Invoices service.
type Option func(*Invoices)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(s *Invoices) { s.logger = l } }

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) Option { return func(s *Invoices) { s.metrics = m } }

// WithCache enables summary caching.
func WithCache(c SummaryCache) Option { return func(s *Invoices) { s.cache = c } }

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option { return func(s *Invoices) { s.now = now } }

// Invoices is the invoice application service.
type Invoices struct {
	bounded
	store     store.InvoiceStore
	pool      store.SerialPool
	allocator *Allocator
	cache     SummaryCache
	recompute bool
	logger    *slog.Logger
	now       func() time.Time
}

// NewInvoices wires the service over a store and a serial pool.
func NewInvoices(invoices store.InvoiceStore, pool store.SerialPool, cfg Config, opts ...Option) *Invoices {
	s := &Invoices{
		store:     invoices,
		pool:      pool,
		recompute: cfg.RecomputeOnFullUpdate,
		logger:    slog.Default(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.bounded = bounded{timeout: cfg.StorageTimeout, metrics: s.metrics}
	s.allocator = NewAllocator(invoices, pool, cfg.StorageTimeout, s.logger, s.metrics)
	return s
}

// Allocator exposes the serial number allocator.
func (s *Invoices) Allocator() *Allocator { return s.allocator }

// List returns the invoices matching f in serial number order. Transfer
// amounts are recomputed from payments on the way out.
func (s *Invoices) List(ctx context.Context, f store.Filter) ([]models.Invoice, error) {
	var out []models.Invoice
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		out, err = s.store.List(ctx, f)
		return err
	})
	if err != nil {
		return nil, err
	}
	for i := range out {
		if len(out[i].Payments) > 0 {
			out[i].TransferAmount = out[i].PaymentTotal()
		}
	}
	return out, nil
}

// Get loads an invoice by id.
func (s *Invoices) Get(ctx context.Context, id string) (*models.Invoice, error) {
	var inv *models.Invoice
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.store.Get(ctx, id)
		return err
	})
	return inv, err
}

// GetByInvoiceNumber loads an invoice by its business number.
func (s *Invoices) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error) {
	var inv *models.Invoice
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.store.GetByInvoiceNumber(ctx, invoiceNumber)
		return err
	})
	return inv, err
}

// Create validates in, assigns the next serial number and stores the invoice.
func (s *Invoices) Create(ctx context.Context, in models.InvoiceInput) (*models.Invoice, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var inv *models.Invoice
	err := s.allocator.WithSerial(ctx, func(ctx context.Context, serial int) error {
		inv = in.NewInvoice(s.store.NewID(), serial, s.now())
		return s.do(ctx, func(ctx context.Context) error {
			return s.store.Insert(ctx, inv)
		})
	})
	if err != nil {
		return nil, err
	}
	s.written(ctx, "create")
	return inv, nil
}

// Update applies a full update to the invoice with the given id.
func (s *Invoices) Update(ctx context.Context, id string, u models.InvoiceUpdate) (*models.Invoice, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, "update", func(inv *models.Invoice) error {
		u.Apply(inv, s.now())
		if s.recompute {
			inv.Recompute()
		}
		return nil
	})
}

// PatchStatus overwrites only the status.
func (s *Invoices) PatchStatus(ctx context.Context, id string, in models.StatusInput) (*models.Invoice, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, "patch_status", func(inv *models.Invoice) error {
		inv.Status = in.Status
		inv.UpdatedAt = s.now()
		return nil
	})
}

// Delete removes the invoice and returns its serial number to the pool. A
// failed release is logged and does not fail the delete.
func (s *Invoices) Delete(ctx context.Context, id string) (*models.Invoice, error) {
	var inv *models.Invoice
	err := s.allocator.WithRelease(ctx, func(ctx context.Context) (int, error) {
		err := s.do(ctx, func(ctx context.Context) error {
			var err error
			inv, err = s.store.Delete(ctx, id)
			return err
		})
		if err != nil {
			return 0, err
		}
		return inv.SerialNumber, nil
	})
	if err != nil {
		return nil, err
	}
	s.written(ctx, "delete")
	return inv, nil
}

// AddPayment records a payment against the invoice.
func (s *Invoices) AddPayment(ctx context.Context, id string, in models.PaymentInput) (*models.Invoice, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, "add_payment", func(inv *models.Invoice) error {
		_, err := inv.AddPayment(in, uuid.NewString(), s.now())
		return err
	})
}

// RemovePayment drops a payment by sub-id. An unknown sub-id is not an error.
func (s *Invoices) RemovePayment(ctx context.Context, id, paymentID string) (*models.Invoice, error) {
	return s.mutate(ctx, id, "remove_payment", func(inv *models.Invoice) error {
		if !inv.RemovePayment(paymentID, s.now()) {
			s.logger.Debug("payment not found on invoice", slog.String("invoice", id), slog.String("payment", paymentID))
		}
		return nil
	})
}

// Payments returns the payment ledger of an invoice.
func (s *Invoices) Payments(ctx context.Context, id string) (models.PaymentHistory, error) {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return models.PaymentHistory{}, err
	}
	return inv.History(), nil
}

// Summary returns statistics grouped by status, served from the cache when
// one is configured and warm.
func (s *Invoices) Summary(ctx context.Context) (models.Summary, error) {
	var (
		version   int64
		cacheable bool
	)
	if s.cache != nil {
		cached, ver, ok, err := s.cache.Summary(ctx)
		switch {
		case err != nil:
			s.logger.Warn("summary cache read failed", slog.Any("error", err))
		case ok:
			return cached, nil
		default:
			version, cacheable = ver, true
		}
	}
	var sum models.Summary
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		sum, err = s.store.Summarize(ctx)
		return err
	})
	if err != nil {
		return models.Summary{}, err
	}
	if cacheable {
		if err := s.cache.StoreSummary(ctx, version, sum); err != nil {
			s.logger.Warn("summary cache write failed", slog.Any("error", err))
		}
	}
	return sum, nil
}

// Ping checks the store.
func (s *Invoices) Ping(ctx context.Context) error {
	return s.do(ctx, s.store.Ping)
}

// mutate loads the invoice, applies change and writes the whole document back.
// Concurrent mutations of one invoice are last-write-wins.
func (s *Invoices) mutate(ctx context.Context, id, op string, change func(*models.Invoice) error) (*models.Invoice, error) {
	inv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(inv); err != nil {
		return nil, err
	}
	err = s.do(ctx, func(ctx context.Context) error {
		return s.store.Replace(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	s.written(ctx, op)
	return inv, nil
}

func (s *Invoices) written(ctx context.Context, op string) {
	s.metrics.InvoiceMutated(op)
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("summary cache invalidation failed", slog.String("op", op), slog.Any("error", err))
	}
}
