package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/satheeshds/invoicing/models"
)

const uniqueViolation = "23505"

// Unique constraints declared in 00001_init.sql.
var uniqueFields = map[string]string{
	"invoices_invoice_number_key": models.FieldInvoiceNumber,
	"invoices_serial_number_key":  models.FieldSerialNumber,
}

// mapError translates driver errors into the models error taxonomy.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if pgconn.Timeout(err) {
		return fmt.Errorf("%s: %w", op, context.DeadlineExceeded)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if field, ok := uniqueFields[pgErr.ConstraintName]; ok {
			return &models.DuplicateError{Field: field}
		}
	}
	return fmt.Errorf("%w: %s: %v", models.ErrStorage, op, err)
}
