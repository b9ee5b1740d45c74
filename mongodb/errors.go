package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/satheeshds/invoicing/models"
)

// mapError translates driver errors into the models error taxonomy.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if mongo.IsTimeout(err) {
		return fmt.Errorf("%s: %w", op, context.DeadlineExceeded)
	}
	if mongo.IsDuplicateKeyError(err) {
		msg := err.Error()
		switch {
		case strings.Contains(msg, indexInvoiceNumber):
			return &models.DuplicateError{Field: models.FieldInvoiceNumber}
		case strings.Contains(msg, indexSerialNumber):
			return &models.DuplicateError{Field: models.FieldSerialNumber}
		}
	}
	return fmt.Errorf("%w: %s: %v", models.ErrStorage, op, err)
}
