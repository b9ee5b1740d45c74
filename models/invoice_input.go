package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceInput is used for creating invoices. A client-supplied serial number
// is accepted on the wire but never used; the allocator assigns it.
type InvoiceInput struct {
	SerialNumber        *int             `json:"srNo" validate:"-"`
	InvoiceNumber       string           `json:"invoiceNo" validate:"required"`
	ClientName          string           `json:"clientName" validate:"required"`
	ItemDescription     string           `json:"itemDescription" validate:"required"`
	InvoiceDate         *Date            `json:"invoiceDate" validate:"required"`
	InvoiceAmount       *decimal.Decimal `json:"invoiceAmount" validate:"required_decimal"`
	Currency            string           `json:"currency" validate:"required,currency"`
	InvoiceType         InvoiceType      `json:"invoiceType" validate:"required,invoice_type"`
	TransferAmount      *decimal.Decimal `json:"transferAmount" validate:"omitnil,gte=0"`
	BankName            string           `json:"bankName" validate:"required"`
	BankReferenceNumber string           `json:"bankRefNumber"`
	BankTransferDate    string           `json:"bankTransferDate"`
	Status              Status           `json:"status" validate:"required,status"`
	Remarks             string           `json:"remarks"`
	MaterialReceived    string           `json:"materialReceived" validate:"omitempty,oneof=Yes No"`
	ReceiptDate         *Date            `json:"receiptDate"`
	CourierName         string           `json:"courierName"`
	BillingCustomer     string           `json:"billingCustomer"`
}

// Validate trims strings, applies defaults and checks every field.
func (i *InvoiceInput) Validate() error {
	for _, s := range []*string{&i.InvoiceNumber, &i.ClientName, &i.ItemDescription, &i.BankName,
		&i.BankReferenceNumber, &i.BankTransferDate, &i.Remarks, &i.MaterialReceived,
		&i.CourierName, &i.BillingCustomer} {
		*s = strings.TrimSpace(*s)
	}
	i.Currency = NormalizeCurrency(i.Currency)
	if i.Currency == "" {
		i.Currency = DefaultCurrency
	}
	if i.Status == "" {
		i.Status = StatusPending
	}
	if err := validate.Struct(i); err != nil {
		return newValidationError("Validation failed", err)
	}
	return nil
}

// NewInvoice builds an unsaved invoice from a validated input.
func (i *InvoiceInput) NewInvoice(id string, serial int, now time.Time) *Invoice {
	transfer := decimal.Zero
	if i.TransferAmount != nil {
		transfer = *i.TransferAmount
	}
	inv := &Invoice{
		ID:                  id,
		SerialNumber:        serial,
		InvoiceNumber:       i.InvoiceNumber,
		ClientName:          i.ClientName,
		ItemDescription:     i.ItemDescription,
		InvoiceDate:         *i.InvoiceDate,
		InvoiceAmount:       *i.InvoiceAmount,
		Currency:            i.Currency,
		InvoiceType:         i.InvoiceType,
		TransferAmount:      transfer,
		BankName:            i.BankName,
		BankReferenceNumber: i.BankReferenceNumber,
		BankTransferDate:    i.BankTransferDate,
		Status:              i.Status,
		Remarks:             i.Remarks,
		MaterialReceived:    i.MaterialReceived,
		ReceiptDate:         i.ReceiptDate,
		CourierName:         i.CourierName,
		BillingCustomer:     i.BillingCustomer,
		Payments:            []Payment{},
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	inv.Recompute()
	return inv
}

// InvoiceUpdate carries any subset of the editable top-level fields. Nil
// fields are left untouched. Identity, serial number and payments cannot be
// changed through it.
type InvoiceUpdate struct {
	InvoiceNumber       *string          `json:"invoiceNo" validate:"omitnil,notblank"`
	ClientName          *string          `json:"clientName" validate:"omitnil,notblank"`
	ItemDescription     *string          `json:"itemDescription" validate:"omitnil,notblank"`
	InvoiceDate         *Date            `json:"invoiceDate" validate:"-"`
	InvoiceAmount       *decimal.Decimal `json:"invoiceAmount" validate:"omitnil,gte=0"`
	Currency            *string          `json:"currency" validate:"omitnil,currency"`
	InvoiceType         *InvoiceType     `json:"invoiceType" validate:"omitnil,invoice_type"`
	TransferAmount      *decimal.Decimal `json:"transferAmount" validate:"omitnil,gte=0"`
	BankName            *string          `json:"bankName" validate:"omitnil,notblank"`
	BankReferenceNumber *string          `json:"bankRefNumber"`
	BankTransferDate    *string          `json:"bankTransferDate"`
	Status              *Status          `json:"status" validate:"omitnil,status"`
	Remarks             *string          `json:"remarks"`
	MaterialReceived    *string          `json:"materialReceived" validate:"omitnil,oneof=Yes No ''"`
	ReceiptDate         *Date            `json:"receiptDate"`
	CourierName         *string          `json:"courierName"`
	BillingCustomer     *string          `json:"billingCustomer"`
}

// Validate trims the supplied strings and checks the supplied fields.
func (u *InvoiceUpdate) Validate() error {
	for _, s := range []*string{u.InvoiceNumber, u.ClientName, u.ItemDescription, u.BankName,
		u.BankReferenceNumber, u.BankTransferDate, u.Remarks, u.MaterialReceived,
		u.CourierName, u.BillingCustomer} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
	if u.Currency != nil {
		c := NormalizeCurrency(*u.Currency)
		u.Currency = &c
	}
	err := validate.Struct(u)
	blankDate := u.InvoiceDate != nil && u.InvoiceDate.IsZero()
	if err == nil && !blankDate {
		return nil
	}
	ve := newValidationError("Validation failed", err)
	if blankDate {
		ve.Fields["invoiceDate"] = "is required"
	}
	return ve
}

// Apply copies the supplied fields onto inv. Derived fields are taken as
// given; callers decide whether to re-derive afterwards.
func (u *InvoiceUpdate) Apply(inv *Invoice, now time.Time) {
	setString(&inv.InvoiceNumber, u.InvoiceNumber)
	setString(&inv.ClientName, u.ClientName)
	setString(&inv.ItemDescription, u.ItemDescription)
	if u.InvoiceDate != nil {
		inv.InvoiceDate = *u.InvoiceDate
	}
	if u.InvoiceAmount != nil {
		inv.InvoiceAmount = *u.InvoiceAmount
	}
	setString(&inv.Currency, u.Currency)
	if u.InvoiceType != nil {
		inv.InvoiceType = *u.InvoiceType
	}
	if u.TransferAmount != nil {
		inv.TransferAmount = *u.TransferAmount
	}
	setString(&inv.BankName, u.BankName)
	setString(&inv.BankReferenceNumber, u.BankReferenceNumber)
	setString(&inv.BankTransferDate, u.BankTransferDate)
	if u.Status != nil {
		inv.Status = *u.Status
	}
	setString(&inv.Remarks, u.Remarks)
	setString(&inv.MaterialReceived, u.MaterialReceived)
	if u.ReceiptDate != nil {
		if u.ReceiptDate.IsZero() {
			inv.ReceiptDate = nil
		} else {
			d := *u.ReceiptDate
			inv.ReceiptDate = &d
		}
	}
	setString(&inv.CourierName, u.CourierName)
	setString(&inv.BillingCustomer, u.BillingCustomer)
	inv.UpdatedAt = now
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// StatusInput is the body of a status-only patch.
type StatusInput struct {
	Status Status `json:"status" validate:"required,status"`
}

func (s *StatusInput) Validate() error {
	if err := validate.Struct(s); err != nil {
		return newValidationError("Validation failed", err)
	}
	return nil
}
