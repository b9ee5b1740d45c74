// Package memory is an in-process store used by tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/satheeshds/invoicing/models"
	"github.com/satheeshds/invoicing/store"
)

// Invoices keeps invoices in a map guarded by a mutex.
type Invoices struct {
	mu       sync.RWMutex
	invoices map[string]models.Invoice
}

// NewInvoices returns an empty invoice store.
func NewInvoices() *Invoices {
	return &Invoices{invoices: map[string]models.Invoice{}}
}

func (s *Invoices) NewID() string { return uuid.NewString() }

func (s *Invoices) List(_ context.Context, f store.Filter) ([]models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Invoice{}
	for _, inv := range s.invoices {
		if f.Match(&inv) {
			out = append(out, clone(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SerialNumber < out[j].SerialNumber })
	return out, nil
}

func (s *Invoices) Get(_ context.Context, id string) (*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	c := clone(inv)
	return &c, nil
}

func (s *Invoices) GetByInvoiceNumber(_ context.Context, invoiceNumber string) (*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inv := range s.invoices {
		if inv.InvoiceNumber == invoiceNumber {
			c := clone(inv)
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *Invoices) Insert(_ context.Context, inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[inv.ID]; ok {
		return fmt.Errorf("memory: id %s already stored", inv.ID)
	}
	if err := s.checkUnique(inv); err != nil {
		return err
	}
	s.invoices[inv.ID] = clone(*inv)
	return nil
}

func (s *Invoices) Replace(_ context.Context, inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[inv.ID]; !ok {
		return models.ErrNotFound
	}
	if err := s.checkUnique(inv); err != nil {
		return err
	}
	s.invoices[inv.ID] = clone(*inv)
	return nil
}

// checkUnique mirrors the unique indexes of the persistent backends.
func (s *Invoices) checkUnique(inv *models.Invoice) error {
	for id, other := range s.invoices {
		if id == inv.ID {
			continue
		}
		if other.InvoiceNumber == inv.InvoiceNumber {
			return &models.DuplicateError{Field: models.FieldInvoiceNumber}
		}
		if other.SerialNumber == inv.SerialNumber {
			return &models.DuplicateError{Field: models.FieldSerialNumber}
		}
	}
	return nil
}

func (s *Invoices) Delete(_ context.Context, id string) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	delete(s.invoices, id)
	return &inv, nil
}

func (s *Invoices) MaxSerial(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	max := 0
	for _, inv := range s.invoices {
		if inv.SerialNumber > max {
			max = inv.SerialNumber
		}
	}
	return max, nil
}

func (s *Invoices) Summarize(_ context.Context) (models.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]models.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		all = append(all, inv)
	}
	return models.Summarize(all), nil
}

func (s *Invoices) Ping(context.Context) error { return nil }

func clone(inv models.Invoice) models.Invoice {
	inv.Payments = append([]models.Payment{}, inv.Payments...)
	if inv.ReceiptDate != nil {
		d := *inv.ReceiptDate
		inv.ReceiptDate = &d
	}
	return inv
}

// Pool is an in-memory serial number pool.
type Pool struct {
	mu      sync.Mutex
	entries map[int]models.SerialPoolEntry
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{entries: map[int]models.SerialPoolEntry{}}
}

func (p *Pool) ClaimSmallest(_ context.Context) (int, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	best, found := 0, false
	for n, e := range p.entries {
		if e.Available && (!found || n < best) {
			best, found = n, true
		}
	}
	if found {
		delete(p.entries, best)
	}
	return best, found, nil
}

func (p *Pool) Release(_ context.Context, n int, at time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.entries[n]; ok {
		return fmt.Errorf("memory: serial number %d already pooled", n)
	}
	p.entries[n] = models.SerialPoolEntry{Number: n, Available: true, DeletedAt: at}
	return nil
}

// Entries lists pooled entries by ascending number.
func (p *Pool) Entries() []models.SerialPoolEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.SerialPoolEntry, 0, len(p.entries))
	for _, e := range p.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}
