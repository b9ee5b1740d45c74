package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satheeshds/invoicing/models"
	"github.com/satheeshds/invoicing/store"
)

func invoice(id string, serial int, no, client string, status models.Status, day int) *models.Invoice {
	return &models.Invoice{
		ID:            id,
		SerialNumber:  serial,
		InvoiceNumber: no,
		ClientName:    client,
		InvoiceDate:   models.NewDate(time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC)),
		InvoiceAmount: decimal.NewFromInt(100),
		InvoiceType:   models.InvoiceTypeService,
		Status:        status,
		Payments:      []models.Payment{},
	}
}

func seed(t *testing.T) *Invoices {
	t.Helper()
	s := NewInvoices()
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, invoice("c", 3, "INV-3", "Tech Solutions", models.StatusPaid, 20)))
	require.NoError(t, s.Insert(ctx, invoice("a", 1, "INV-1", "ABC Corp", models.StatusPending, 5)))
	require.NoError(t, s.Insert(ctx, invoice("b", 2, "INV-2", "abc holdings", models.StatusPaid, 10)))
	return s
}

func TestListOrderAndFilters(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	all, err := s.List(ctx, store.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{all[0].SerialNumber, all[1].SerialNumber, all[2].SerialNumber})

	byName, err := s.List(ctx, store.Filter{ClientName: "ABC"})
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	paid, err := s.List(ctx, store.Filter{Status: models.StatusPaid, ClientName: "abc"})
	require.NoError(t, err)
	require.Len(t, paid, 1)
	assert.Equal(t, "b", paid[0].ID)

	from := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	ranged, err := s.List(ctx, store.Filter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	none, err := s.List(ctx, store.Filter{InvoiceType: models.InvoiceTypeLicense})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestUniqueness(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	err := s.Insert(ctx, invoice("d", 4, "INV-1", "X", models.StatusPaid, 1))
	var dup *models.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, models.FieldInvoiceNumber, dup.Field)

	err = s.Insert(ctx, invoice("d", 2, "INV-4", "X", models.StatusPaid, 1))
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, models.FieldSerialNumber, dup.Field)

	clash := invoice("a", 1, "INV-2", "ABC Corp", models.StatusPending, 5)
	require.ErrorIs(t, s.Replace(ctx, clash), models.ErrDuplicate)
}

func TestStoredCopiesAreIsolated(t *testing.T) {
	s := NewInvoices()
	ctx := context.Background()
	inv := invoice("a", 1, "INV-1", "ABC Corp", models.StatusPending, 1)
	require.NoError(t, s.Insert(ctx, inv))

	inv.ClientName = "changed"
	inv.Payments = append(inv.Payments, models.Payment{ID: "p"})

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "ABC Corp", got.ClientName)
	assert.Empty(t, got.Payments)
}

func TestGetDeleteAndMax(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	max, err := s.MaxSerial(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, max)

	got, err := s.GetByInvoiceNumber(ctx, "INV-2")
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)
	_, err = s.GetByInvoiceNumber(ctx, "INV-9")
	require.ErrorIs(t, err, models.ErrNotFound)

	deleted, err := s.Delete(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 3, deleted.SerialNumber)
	_, err = s.Delete(ctx, "c")
	require.ErrorIs(t, err, models.ErrNotFound)
	require.ErrorIs(t, s.Replace(ctx, deleted), models.ErrNotFound)

	max, err = s.MaxSerial(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, max)
}

func TestSummarize(t *testing.T) {
	s := seed(t)
	sum, err := s.Summarize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TotalInvoices)
	require.Len(t, sum.StatusBreakdown, 2)
	assert.Equal(t, models.StatusPaid, sum.StatusBreakdown[0].Status)
	assert.Equal(t, 2, sum.StatusBreakdown[0].Count)
}

func TestPool(t *testing.T) {
	p := NewPool()
	ctx := context.Background()
	now := time.Now()

	_, ok, err := p.ClaimSmallest(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, p.Release(ctx, 7, now))
	require.NoError(t, p.Release(ctx, 3, now))
	require.Error(t, p.Release(ctx, 3, now))

	n, ok, err := p.ClaimSmallest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, n)

	entries := p.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 7, entries[0].Number)
	assert.True(t, entries[0].Available)
}
