package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, matching what the grid UI sends and expects.
	decimal.MarshalJSONWithoutQuotes = true
}

// Status is the payment state of an invoice.
type Status string

const (
	StatusPaid    Status = "Paid"
	StatusPending Status = "Pending"
	StatusPartial Status = "Partial"
	StatusUnpaid  Status = "Unpaid"
)

// Statuses lists every valid Status.
var Statuses = []Status{StatusPaid, StatusPending, StatusPartial, StatusUnpaid}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// InvoiceType classifies what was invoiced.
type InvoiceType string

const (
	InvoiceTypeService InvoiceType = "Service"
	InvoiceTypeProduct InvoiceType = "Product"
	InvoiceTypeLicense InvoiceType = "License"
)

// InvoiceTypes lists every valid InvoiceType.
var InvoiceTypes = []InvoiceType{InvoiceTypeService, InvoiceTypeProduct, InvoiceTypeLicense}

// Valid reports whether t is one of the known invoice types.
func (t InvoiceType) Valid() bool {
	return slices.Contains(InvoiceTypes, t)
}

// Currencies accepted on an invoice.
var Currencies = []string{"USD", "EUR", "GBP", "INR", "CNY", "JPY", "AUD", "CAD", "CHF", "AED"}

// DefaultCurrency is applied when an invoice is created without one.
const DefaultCurrency = "USD"

// Invoice is the aggregate root. It owns its payments in recording order and
// derives TransferAmount and Status from them.
type Invoice struct {
	ID                  string          `json:"_id"`
	SerialNumber        int             `json:"srNo"`
	InvoiceNumber       string          `json:"invoiceNo"`
	ClientName          string          `json:"clientName"`
	ItemDescription     string          `json:"itemDescription"`
	InvoiceDate         Date            `json:"invoiceDate"`
	InvoiceAmount       decimal.Decimal `json:"invoiceAmount"`
	Currency            string          `json:"currency"`
	InvoiceType         InvoiceType     `json:"invoiceType"`
	TransferAmount      decimal.Decimal `json:"transferAmount"`
	BankName            string          `json:"bankName"`
	BankReferenceNumber string          `json:"bankRefNumber"`
	BankTransferDate    string          `json:"bankTransferDate"`
	Status              Status          `json:"status"`
	Remarks             string          `json:"remarks"`
	MaterialReceived    string          `json:"materialReceived"`
	ReceiptDate         *Date           `json:"receiptDate"`
	CourierName         string          `json:"courierName"`
	BillingCustomer     string          `json:"billingCustomer"`
	Payments            []Payment       `json:"payments"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// PaymentTotal sums the amounts of all recorded payments.
func (inv *Invoice) PaymentTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range inv.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Recompute re-derives TransferAmount and Status from the payments. An invoice
// without payments keeps whatever status and transfer amount it already has.
func (inv *Invoice) Recompute() {
	if len(inv.Payments) == 0 {
		return
	}
	inv.settle()
}

// settle derives TransferAmount and Status unconditionally, so an empty
// payment collection yields a zero total and Unpaid.
func (inv *Invoice) settle() {
	inv.TransferAmount = inv.PaymentTotal()
	inv.Status = DeriveStatus(inv.TransferAmount, inv.InvoiceAmount)
}

// DeriveStatus maps a transferred total against the invoiced amount.
func DeriveStatus(transferred, invoiced decimal.Decimal) Status {
	switch {
	case transferred.GreaterThanOrEqual(invoiced):
		return StatusPaid
	case transferred.IsPositive():
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

// AddPayment validates and appends a payment recorded at now, then re-derives
// the transfer total and status.
func (inv *Invoice) AddPayment(in PaymentInput, id string, now time.Time) (Payment, error) {
	if err := in.Validate(); err != nil {
		return Payment{}, err
	}
	p := Payment{
		ID:          id,
		Amount:      *in.Amount,
		PaymentType: in.PaymentType,
		PaymentDate: now,
		Remarks:     in.Remarks,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	inv.Payments = append(inv.Payments, p)
	inv.settle()
	inv.UpdatedAt = now
	return p, nil
}

// RemovePayment drops the payment with the given sub-id, if present, and
// always re-derives the transfer total and status afterwards. It reports
// whether a payment was removed.
func (inv *Invoice) RemovePayment(paymentID string, now time.Time) bool {
	kept := make([]Payment, 0, len(inv.Payments))
	removed := false
	for _, p := range inv.Payments {
		if p.ID == paymentID {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	inv.Payments = kept
	inv.settle()
	inv.UpdatedAt = now
	return removed
}

// Balance is the amount still owed, never negative.
func (inv *Invoice) Balance() decimal.Decimal {
	b := inv.InvoiceAmount.Sub(inv.TransferAmount)
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}
