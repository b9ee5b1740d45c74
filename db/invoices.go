package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/satheeshds/invoicing/models"
	"github.com/satheeshds/invoicing/store"
)

const invoiceColumns = `id::text, serial_number, invoice_number, client_name, item_description, invoice_date,
		invoice_amount::text, currency, invoice_type, transfer_amount::text, bank_name, bank_ref_number,
		bank_transfer_date, status, remarks, material_received, receipt_date, courier_name, billing_customer,
		payments, created_at, updated_at`

const invoiceSelectQuery = `SELECT ` + invoiceColumns + ` FROM invoices`

// Invoices is the PostgreSQL invoice store. Payments live in a JSONB column
// so each invoice is read and written as one row.
type Invoices struct {
	pool *pgxpool.Pool
}

// NewInvoices returns a store over pool.
func NewInvoices(pool *pgxpool.Pool) *Invoices {
	return &Invoices{pool: pool}
}

func (s *Invoices) NewID() string { return uuid.NewString() }

func scanInvoice(scanner pgx.Row) (*models.Invoice, error) {
	var (
		inv                     models.Invoice
		invoiceDate             time.Time
		receiptDate             *time.Time
		invoiceAmount, transfer string
		invoiceType, status     string
		payments                []byte
	)
	err := scanner.Scan(&inv.ID, &inv.SerialNumber, &inv.InvoiceNumber, &inv.ClientName, &inv.ItemDescription,
		&invoiceDate, &invoiceAmount, &inv.Currency, &invoiceType, &transfer, &inv.BankName,
		&inv.BankReferenceNumber, &inv.BankTransferDate, &status, &inv.Remarks, &inv.MaterialReceived,
		&receiptDate, &inv.CourierName, &inv.BillingCustomer, &payments, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.InvoiceDate = models.NewDate(invoiceDate)
	if receiptDate != nil {
		d := models.NewDate(*receiptDate)
		inv.ReceiptDate = &d
	}
	inv.InvoiceType = models.InvoiceType(invoiceType)
	inv.Status = models.Status(status)
	if inv.InvoiceAmount, err = decimal.NewFromString(invoiceAmount); err != nil {
		return nil, fmt.Errorf("invoice_amount: %w", err)
	}
	if inv.TransferAmount, err = decimal.NewFromString(transfer); err != nil {
		return nil, fmt.Errorf("transfer_amount: %w", err)
	}
	inv.Payments = []models.Payment{}
	if len(payments) > 0 {
		if err := json.Unmarshal(payments, &inv.Payments); err != nil {
			return nil, fmt.Errorf("payments: %w", err)
		}
	}
	inv.CreatedAt = inv.CreatedAt.UTC()
	inv.UpdatedAt = inv.UpdatedAt.UTC()
	return &inv, nil
}

// escapeLike escapes LIKE metacharacters so the term matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *Invoices) List(ctx context.Context, f store.Filter) ([]models.Invoice, error) {
	query := invoiceSelectQuery
	var conditions []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		conditions = append(conditions, "status = "+arg(string(f.Status)))
	}
	if f.ClientName != "" {
		conditions = append(conditions, "client_name ILIKE '%' || "+arg(escapeLike(f.ClientName))+" || '%'")
	}
	if f.InvoiceType != "" {
		conditions = append(conditions, "invoice_type = "+arg(string(f.InvoiceType)))
	}
	if f.From != nil {
		conditions = append(conditions, "invoice_date >= "+arg(*f.From))
	}
	if f.To != nil {
		conditions = append(conditions, "invoice_date <= "+arg(*f.To))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY serial_number ASC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list invoices", err)
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, mapError("scan invoice", err)
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("list invoices", err)
	}
	return invoices, nil
}

func (s *Invoices) Get(ctx context.Context, id string) (*models.Invoice, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}
	inv, err := scanInvoice(s.pool.QueryRow(ctx, invoiceSelectQuery+" WHERE id = $1", id))
	if err != nil {
		return nil, mapError("get invoice", err)
	}
	return inv, nil
}

func (s *Invoices) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error) {
	inv, err := scanInvoice(s.pool.QueryRow(ctx, invoiceSelectQuery+" WHERE invoice_number = $1", invoiceNumber))
	if err != nil {
		return nil, mapError("get invoice by number", err)
	}
	return inv, nil
}

// invoiceArgs returns the column values in invoiceColumns order, id first.
func invoiceArgs(inv *models.Invoice) ([]any, error) {
	payments := inv.Payments
	if payments == nil {
		payments = []models.Payment{}
	}
	raw, err := json.Marshal(payments)
	if err != nil {
		return nil, fmt.Errorf("encoding payments: %w", err)
	}
	var receipt *time.Time
	if inv.ReceiptDate != nil && !inv.ReceiptDate.IsZero() {
		t := inv.ReceiptDate.Time
		receipt = &t
	}
	return []any{
		inv.ID, inv.SerialNumber, inv.InvoiceNumber, inv.ClientName, inv.ItemDescription, inv.InvoiceDate.Time,
		inv.InvoiceAmount.String(), inv.Currency, string(inv.InvoiceType), inv.TransferAmount.String(), inv.BankName,
		inv.BankReferenceNumber, inv.BankTransferDate, string(inv.Status), inv.Remarks, inv.MaterialReceived,
		receipt, inv.CourierName, inv.BillingCustomer, raw, inv.CreatedAt, inv.UpdatedAt,
	}, nil
}

func (s *Invoices) Insert(ctx context.Context, inv *models.Invoice) error {
	args, err := invoiceArgs(inv)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `INSERT INTO invoices (id, serial_number, invoice_number, client_name, item_description,
		invoice_date, invoice_amount, currency, invoice_type, transfer_amount, bank_name, bank_ref_number,
		bank_transfer_date, status, remarks, material_received, receipt_date, courier_name, billing_customer,
		payments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, $10::numeric, $11, $12, $13, $14, $15, $16, $17, $18, $19,
		$20::jsonb, $21, $22)`, args...)
	return mapError("insert invoice", err)
}

func (s *Invoices) Replace(ctx context.Context, inv *models.Invoice) error {
	if _, err := uuid.Parse(inv.ID); err != nil {
		return models.ErrNotFound
	}
	args, err := invoiceArgs(inv)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `UPDATE invoices SET serial_number = $2, invoice_number = $3, client_name = $4,
		item_description = $5, invoice_date = $6, invoice_amount = $7::numeric, currency = $8, invoice_type = $9,
		transfer_amount = $10::numeric, bank_name = $11, bank_ref_number = $12, bank_transfer_date = $13,
		status = $14, remarks = $15, material_received = $16, receipt_date = $17, courier_name = $18,
		billing_customer = $19, payments = $20::jsonb, created_at = $21, updated_at = $22
		WHERE id = $1`, args...)
	if err != nil {
		return mapError("update invoice", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Invoices) Delete(ctx context.Context, id string) (*models.Invoice, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, models.ErrNotFound
	}
	inv, err := scanInvoice(s.pool.QueryRow(ctx, "DELETE FROM invoices WHERE id = $1 RETURNING "+invoiceColumns, id))
	if err != nil {
		return nil, mapError("delete invoice", err)
	}
	return inv, nil
}

func (s *Invoices) MaxSerial(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, "SELECT COALESCE(MAX(serial_number), 0) FROM invoices").Scan(&n)
	if err != nil {
		return 0, mapError("max serial number", err)
	}
	return n, nil
}

func (s *Invoices) Summarize(ctx context.Context) (models.Summary, error) {
	rows, err := s.pool.Query(ctx, `SELECT status, COUNT(*), COALESCE(SUM(invoice_amount), 0)::text,
		COALESCE(SUM(transfer_amount), 0)::text FROM invoices GROUP BY status`)
	if err != nil {
		return models.Summary{}, mapError("summarize invoices", err)
	}
	defer rows.Close()

	var groups []models.StatusGroup
	for rows.Next() {
		var (
			g               models.StatusGroup
			status          string
			total, transfer string
		)
		if err := rows.Scan(&status, &g.Count, &total, &transfer); err != nil {
			return models.Summary{}, mapError("scan summary", err)
		}
		g.Status = models.Status(status)
		if g.TotalAmount, err = decimal.NewFromString(total); err != nil {
			return models.Summary{}, fmt.Errorf("summary total: %w", err)
		}
		if g.TotalTransferred, err = decimal.NewFromString(transfer); err != nil {
			return models.Summary{}, fmt.Errorf("summary transferred: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return models.Summary{}, mapError("summarize invoices", err)
	}
	return models.NewSummary(groups), nil
}

func (s *Invoices) Ping(ctx context.Context) error {
	return mapError("ping", s.pool.Ping(ctx))
}
