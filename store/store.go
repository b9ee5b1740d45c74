// Package store declares the persistence boundary of the invoice service.
// Backends live in db (PostgreSQL), mongodb and store/memory.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/satheeshds/invoicing/models"
)

// Filter is a conjunction of optional list criteria. Zero fields match
// everything.
type Filter struct {
	Status      models.Status
	ClientName  string
	InvoiceType models.InvoiceType
	From        *time.Time
	To          *time.Time
}

// Match reports whether inv satisfies every criterion set on f.
func (f Filter) Match(inv *models.Invoice) bool {
	if f.Status != "" && inv.Status != f.Status {
		return false
	}
	if f.InvoiceType != "" && inv.InvoiceType != f.InvoiceType {
		return false
	}
	if f.ClientName != "" && !strings.Contains(strings.ToLower(inv.ClientName), strings.ToLower(f.ClientName)) {
		return false
	}
	if f.From != nil && inv.InvoiceDate.Before(*f.From) {
		return false
	}
	if f.To != nil && inv.InvoiceDate.After(*f.To) {
		return false
	}
	return true
}

// InvoiceStore persists whole invoice documents. Lookups of unknown or
// malformed ids return models.ErrNotFound; unique violations return a
// *models.DuplicateError.
type InvoiceStore interface {
	// NewID returns a fresh opaque id in the backend's native format.
	NewID() string
	List(ctx context.Context, f Filter) ([]models.Invoice, error)
	Get(ctx context.Context, id string) (*models.Invoice, error)
	GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error)
	Insert(ctx context.Context, inv *models.Invoice) error
	// Replace overwrites the stored document. Concurrent writers race and the
	// last write wins.
	Replace(ctx context.Context, inv *models.Invoice) error
	// Delete removes the invoice and returns what was removed.
	Delete(ctx context.Context, id string) (*models.Invoice, error)
	// MaxSerial returns the highest serial number in use, or 0.
	MaxSerial(ctx context.Context) (int, error)
	Summarize(ctx context.Context) (models.Summary, error)
	Ping(ctx context.Context) error
}

// SerialPool holds serial numbers released by deleted invoices.
type SerialPool interface {
	// ClaimSmallest atomically removes and returns the smallest available
	// number. ok is false when the pool is empty.
	ClaimSmallest(ctx context.Context) (n int, ok bool, err error)
	// Release adds n to the pool. Adding a number already pooled is an error.
	Release(ctx context.Context, n int, at time.Time) error
}
