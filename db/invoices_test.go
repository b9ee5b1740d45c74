package db

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/satheeshds/invoicing/models"
	"github.com/satheeshds/invoicing/store"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now\\`, escapeLike(`50% off_now\`))
	assert.Equal(t, "abc", escapeLike("abc"))
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError("op", nil))
	assert.ErrorIs(t, mapError("op", pgx.ErrNoRows), models.ErrNotFound)
	assert.ErrorIs(t, mapError("op", fmt.Errorf("wrapped: %w", context.DeadlineExceeded)), context.DeadlineExceeded)

	var dup *models.DuplicateError
	err := mapError("op", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "invoices_invoice_number_key"})
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, models.FieldInvoiceNumber, dup.Field)

	err = mapError("op", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "invoices_serial_number_key"})
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, models.FieldSerialNumber, dup.Field)

	err = mapError("op", &pgconn.PgError{Code: uniqueViolation, ConstraintName: "serial_number_pool_pkey"})
	assert.ErrorIs(t, err, models.ErrStorage)
	assert.ErrorIs(t, mapError("op", errors.New("boom")), models.ErrStorage)
}

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	t.Cleanup(cancel)

	container, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("invoicing"),
		tcPostgres.WithUsername("invoicing"),
		tcPostgres.WithPassword("invoicing"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2*time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	return pool
}

func newInvoice(s *Invoices, serial int, no, client string) *models.Invoice {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Invoice{
		ID:              s.NewID(),
		SerialNumber:    serial,
		InvoiceNumber:   no,
		ClientName:      client,
		ItemDescription: "Consulting",
		InvoiceDate:     models.NewDate(time.Date(2026, 1, serial, 0, 0, 0, 0, time.UTC)),
		InvoiceAmount:   decimal.RequireFromString("1000.50"),
		Currency:        "USD",
		InvoiceType:     models.InvoiceTypeService,
		TransferAmount:  decimal.Zero,
		BankName:        "State Bank",
		Status:          models.StatusPending,
		Payments:        []models.Payment{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestPostgresInvoices(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	s := NewInvoices(pool)

	a := newInvoice(s, 1, "INV-1", "ABC Corp")
	b := newInvoice(s, 2, "INV-2", "XYZ Ltd")
	require.NoError(t, s.Insert(ctx, b))
	require.NoError(t, s.Insert(ctx, a))

	t.Run("duplicates name the field", func(t *testing.T) {
		var dup *models.DuplicateError
		err := s.Insert(ctx, newInvoice(s, 3, "INV-1", "Other"))
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, models.FieldInvoiceNumber, dup.Field)

		err = s.Insert(ctx, newInvoice(s, 2, "INV-3", "Other"))
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, models.FieldSerialNumber, dup.Field)
	})

	t.Run("list orders by serial and filters", func(t *testing.T) {
		all, err := s.List(ctx, store.Filter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, 1, all[0].SerialNumber)
		assert.True(t, all[0].InvoiceAmount.Equal(decimal.RequireFromString("1000.50")))

		abc, err := s.List(ctx, store.Filter{ClientName: "abc"})
		require.NoError(t, err)
		require.Len(t, abc, 1)
		assert.Equal(t, a.ID, abc[0].ID)

		literal, err := s.List(ctx, store.Filter{ClientName: "%"})
		require.NoError(t, err)
		assert.Empty(t, literal)

		from := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
		ranged, err := s.List(ctx, store.Filter{From: &from, To: &from})
		require.NoError(t, err)
		require.Len(t, ranged, 1)
		assert.Equal(t, b.ID, ranged[0].ID)
	})

	t.Run("replace round-trips payments", func(t *testing.T) {
		got, err := s.Get(ctx, a.ID)
		require.NoError(t, err)
		_, err = got.AddPayment(models.PaymentInput{Amount: decimalPtr("400.25"), PaymentType: "Wire"}, "p1", time.Now().UTC())
		require.NoError(t, err)
		require.NoError(t, s.Replace(ctx, got))

		again, err := s.GetByInvoiceNumber(ctx, "INV-1")
		require.NoError(t, err)
		require.Len(t, again.Payments, 1)
		assert.True(t, again.Payments[0].Amount.Equal(decimal.RequireFromString("400.25")))
		assert.True(t, again.TransferAmount.Equal(decimal.RequireFromString("400.25")))
		assert.Equal(t, models.StatusPartial, again.Status)
	})

	t.Run("summary groups by status", func(t *testing.T) {
		sum, err := s.Summarize(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, sum.TotalInvoices)
		assert.True(t, sum.TotalInvoiceAmount.Equal(decimal.RequireFromString("2001.00")))
		require.Len(t, sum.StatusBreakdown, 2)
		assert.Equal(t, models.StatusPartial, sum.StatusBreakdown[0].Status)
	})

	t.Run("unknown and malformed ids are not found", func(t *testing.T) {
		_, err := s.Get(ctx, "not-a-uuid")
		require.ErrorIs(t, err, models.ErrNotFound)
		_, err = s.Get(ctx, s.NewID())
		require.ErrorIs(t, err, models.ErrNotFound)
		require.ErrorIs(t, s.Replace(ctx, newInvoice(s, 9, "INV-9", "Nobody")), models.ErrNotFound)
	})

	t.Run("delete returns the removed row", func(t *testing.T) {
		max, err := s.MaxSerial(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, max)

		deleted, err := s.Delete(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, deleted.SerialNumber)
		_, err = s.Delete(ctx, b.ID)
		require.ErrorIs(t, err, models.ErrNotFound)

		max, err = s.MaxSerial(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, max)
	})
}

func TestPostgresSerialPool(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()
	p := NewSerialPool(pool)

	_, ok, err := p.ClaimSmallest(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	now := time.Now().UTC()
	for _, n := range []int{9, 4, 6} {
		require.NoError(t, p.Release(ctx, n, now))
	}
	require.Error(t, p.Release(ctx, 4, now))

	var (
		mu      sync.Mutex
		claimed []int
		wg      sync.WaitGroup
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, ok, err := p.ClaimSmallest(ctx)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				claimed = append(claimed, n)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	sort.Ints(claimed)
	assert.Equal(t, []int{4, 6, 9}, claimed)

	entries, err := p.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
