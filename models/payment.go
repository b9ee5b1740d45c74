package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one money transfer recorded against an invoice. It has no
// identity outside its parent; ID is unique within the invoice only.
type Payment struct {
	ID          string          `json:"_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentType string          `json:"paymentType"`
	PaymentDate time.Time       `json:"paymentDate"`
	Remarks     string          `json:"remarks"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// PaymentInput is used for recording a payment.
type PaymentInput struct {
	Amount      *decimal.Decimal `json:"amount" validate:"required,gt=0"`
	PaymentType string           `json:"paymentType" validate:"required"`
	Remarks     string           `json:"remarks"`
}

// Validate trims the input and checks amount and payment type.
func (p *PaymentInput) Validate() error {
	p.PaymentType = strings.TrimSpace(p.PaymentType)
	p.Remarks = strings.TrimSpace(p.Remarks)
	if err := validate.Struct(p); err != nil {
		return newValidationError("Amount and payment type are required", err)
	}
	return nil
}

// PaymentHistoryEntry is a payment annotated with the cumulative total paid
// up to and including it.
type PaymentHistoryEntry struct {
	Payment
	RunningTotal decimal.Decimal `json:"runningTotal"`
}

// PaymentHistory is the payment ledger of a single invoice.
type PaymentHistory struct {
	InvoiceNumber  string                `json:"invoiceNo"`
	ClientName     string                `json:"clientName"`
	InvoiceAmount  decimal.Decimal       `json:"invoiceAmount"`
	Currency       string                `json:"currency"`
	TransferAmount decimal.Decimal       `json:"transferAmount"`
	Balance        decimal.Decimal       `json:"balance"`
	Payments       []PaymentHistoryEntry `json:"payments"`
}

// History builds the payment ledger of inv in recording order.
func (inv *Invoice) History() PaymentHistory {
	entries := make([]PaymentHistoryEntry, 0, len(inv.Payments))
	running := decimal.Zero
	for _, p := range inv.Payments {
		running = running.Add(p.Amount)
		entries = append(entries, PaymentHistoryEntry{Payment: p, RunningTotal: running})
	}
	return PaymentHistory{
		InvoiceNumber:  inv.InvoiceNumber,
		ClientName:     inv.ClientName,
		InvoiceAmount:  inv.InvoiceAmount,
		Currency:       inv.Currency,
		TransferAmount: inv.TransferAmount,
		Balance:        inv.Balance(),
		Payments:       entries,
	}
}
