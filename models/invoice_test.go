package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func newTestInvoice(amount string, status Status) *Invoice {
	return &Invoice{
		ID:             "inv-1",
		SerialNumber:   1,
		InvoiceNumber:  "INV-001",
		ClientName:     "ABC Corp",
		InvoiceAmount:  dec(amount),
		TransferAmount: decimal.Zero,
		Currency:       "USD",
		Status:         status,
		Payments:       []Payment{},
	}
}

func TestAddPaymentKeepsRunningSum(t *testing.T) {
	inv := newTestInvoice("1000", StatusPending)
	running := decimal.Zero
	for i, amt := range []string{"100.50", "250", "0.25", "649.25"} {
		p, err := inv.AddPayment(PaymentInput{Amount: decPtr(amt), PaymentType: "Wire"}, string(rune('a'+i)), testNow)
		require.NoError(t, err)
		assert.Equal(t, testNow, p.PaymentDate)
		running = running.Add(dec(amt))
		assert.True(t, running.Equal(inv.TransferAmount), "after payment %d want %s got %s", i, running, inv.TransferAmount)
	}
	assert.Equal(t, StatusPaid, inv.Status)
	assert.Len(t, inv.Payments, 4)
}

func TestStatusDerivation(t *testing.T) {
	tests := []struct {
		name     string
		payments []string
		want     Status
	}{
		{"exact", []string{"600", "400"}, StatusPaid},
		{"overpaid", []string{"1200"}, StatusPaid},
		{"one unit", []string{"1"}, StatusPartial},
		{"just short", []string{"500", "499"}, StatusPartial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := newTestInvoice("1000", StatusPending)
			for i, amt := range tt.payments {
				_, err := inv.AddPayment(PaymentInput{Amount: decPtr(amt), PaymentType: "Cash"}, string(rune('a'+i)), testNow)
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, inv.Status)
		})
	}
}

func TestRecomputeWithoutPaymentsKeepsStatus(t *testing.T) {
	inv := newTestInvoice("1000", StatusPaid)
	inv.TransferAmount = dec("1000")
	inv.Recompute()
	assert.Equal(t, StatusPaid, inv.Status)
	assert.True(t, inv.TransferAmount.Equal(dec("1000")))
}

func TestRemovingAllPaymentsMarksUnpaid(t *testing.T) {
	inv := newTestInvoice("1000", StatusPending)
	_, err := inv.AddPayment(PaymentInput{Amount: decPtr("300"), PaymentType: "Cash"}, "p1", testNow)
	require.NoError(t, err)
	_, err = inv.AddPayment(PaymentInput{Amount: decPtr("200"), PaymentType: "Cash"}, "p2", testNow)
	require.NoError(t, err)

	assert.True(t, inv.RemovePayment("p1", testNow))
	assert.Equal(t, StatusPartial, inv.Status)
	assert.True(t, inv.RemovePayment("p2", testNow))
	assert.Equal(t, StatusUnpaid, inv.Status)
	assert.True(t, inv.TransferAmount.IsZero())
	assert.Empty(t, inv.Payments)
}

func TestRemoveUnknownPaymentIsNoop(t *testing.T) {
	inv := newTestInvoice("1000", StatusPending)
	_, err := inv.AddPayment(PaymentInput{Amount: decPtr("400"), PaymentType: "Cash"}, "p1", testNow)
	require.NoError(t, err)
	before := append([]Payment{}, inv.Payments...)

	assert.False(t, inv.RemovePayment("missing", testNow.Add(time.Hour)))
	assert.Equal(t, before, inv.Payments)
	assert.True(t, inv.TransferAmount.Equal(dec("400")))
	assert.Equal(t, StatusPartial, inv.Status)
}

func TestRemovePaymentDoesNotAliasPreviousSlice(t *testing.T) {
	inv := newTestInvoice("100", StatusPending)
	_, _ = inv.AddPayment(PaymentInput{Amount: decPtr("10"), PaymentType: "Cash"}, "p1", testNow)
	_, _ = inv.AddPayment(PaymentInput{Amount: decPtr("20"), PaymentType: "Cash"}, "p2", testNow)
	old := inv.Payments

	inv.RemovePayment("p1", testNow)
	assert.Equal(t, "p1", old[0].ID)
	assert.Equal(t, "p2", inv.Payments[0].ID)
}

func TestAddPaymentValidation(t *testing.T) {
	inv := newTestInvoice("1000", StatusPending)
	for name, in := range map[string]PaymentInput{
		"missing amount": {PaymentType: "Cash"},
		"zero amount":    {Amount: decPtr("0"), PaymentType: "Cash"},
		"negative":       {Amount: decPtr("-5"), PaymentType: "Cash"},
		"blank type":     {Amount: decPtr("5"), PaymentType: "   "},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := inv.AddPayment(in, "x", testNow)
			require.ErrorIs(t, err, ErrValidation)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "Amount and payment type are required", ve.Message)
		})
	}
	assert.Empty(t, inv.Payments)
	assert.Equal(t, StatusPending, inv.Status)
}

func TestHistoryRunningTotals(t *testing.T) {
	inv := newTestInvoice("1000", StatusPending)
	_, _ = inv.AddPayment(PaymentInput{Amount: decPtr("250"), PaymentType: "Wire"}, "p1", testNow)
	_, _ = inv.AddPayment(PaymentInput{Amount: decPtr("300"), PaymentType: "Wire"}, "p2", testNow)

	h := inv.History()
	require.Len(t, h.Payments, 2)
	assert.True(t, h.Payments[0].RunningTotal.Equal(dec("250")))
	assert.True(t, h.Payments[1].RunningTotal.Equal(dec("550")))
	assert.True(t, h.Balance.Equal(dec("450")))
	assert.Equal(t, "INV-001", h.InvoiceNumber)
}

func TestBalanceFloorsAtZero(t *testing.T) {
	inv := newTestInvoice("100", StatusPending)
	_, _ = inv.AddPayment(PaymentInput{Amount: decPtr("150"), PaymentType: "Wire"}, "p1", testNow)
	assert.True(t, inv.Balance().IsZero())
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Invoice{
		{Status: StatusUnpaid, InvoiceAmount: dec("50"), TransferAmount: dec("0")},
		{Status: StatusPaid, InvoiceAmount: dec("100"), TransferAmount: dec("100")},
	})
	assert.Equal(t, 2, s.TotalInvoices)
	assert.True(t, s.TotalInvoiceAmount.Equal(dec("150")))
	assert.True(t, s.TotalTransferAmount.Equal(dec("100")))
	require.Len(t, s.StatusBreakdown, 2)
	assert.Equal(t, StatusPaid, s.StatusBreakdown[0].Status)
	assert.Equal(t, 1, s.StatusBreakdown[0].Count)
	assert.True(t, s.StatusBreakdown[0].TotalAmount.Equal(dec("100")))
	assert.Equal(t, StatusUnpaid, s.StatusBreakdown[1].Status)
	assert.True(t, s.StatusBreakdown[1].TotalAmount.Equal(dec("50")))
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.TotalInvoices)
	assert.True(t, s.TotalInvoiceAmount.IsZero())
	assert.Empty(t, s.StatusBreakdown)
	assert.NotNil(t, s.StatusBreakdown)
}

func validInput() InvoiceInput {
	d := NewDate(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	return InvoiceInput{
		InvoiceNumber:   " INV-9 ",
		ClientName:      "ABC Corp",
		ItemDescription: "Consulting",
		InvoiceDate:     &d,
		InvoiceAmount:   decPtr("1000"),
		Currency:        "inr",
		InvoiceType:     InvoiceTypeService,
		BankName:        "First Bank",
	}
}

func TestInvoiceInputDefaults(t *testing.T) {
	in := validInput()
	in.Currency = ""
	require.NoError(t, in.Validate())
	assert.Equal(t, "INV-9", in.InvoiceNumber)
	assert.Equal(t, DefaultCurrency, in.Currency)
	assert.Equal(t, StatusPending, in.Status)

	inv := in.NewInvoice("id", 3, testNow)
	assert.Equal(t, 3, inv.SerialNumber)
	assert.True(t, inv.TransferAmount.IsZero())
	assert.NotNil(t, inv.Payments)
}

func TestInvoiceInputNormalizesCurrency(t *testing.T) {
	in := validInput()
	require.NoError(t, in.Validate())
	assert.Equal(t, "INR", in.Currency)
}

func TestInvoiceInputAllowsZeroAmount(t *testing.T) {
	in := validInput()
	in.InvoiceAmount = decPtr("0")
	require.NoError(t, in.Validate())
}

func TestInvoiceInputRejects(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*InvoiceInput)
		field string
	}{
		{"missing number", func(i *InvoiceInput) { i.InvoiceNumber = "  " }, "invoiceNo"},
		{"missing amount", func(i *InvoiceInput) { i.InvoiceAmount = nil }, "invoiceAmount"},
		{"negative amount", func(i *InvoiceInput) { i.InvoiceAmount = decPtr("-1") }, "invoiceAmount"},
		{"bad currency", func(i *InvoiceInput) { i.Currency = "XYZ" }, "currency"},
		{"bad type", func(i *InvoiceInput) { i.InvoiceType = "Gift" }, "invoiceType"},
		{"bad status", func(i *InvoiceInput) { i.Status = "Lost" }, "status"},
		{"missing date", func(i *InvoiceInput) { i.InvoiceDate = nil }, "invoiceDate"},
		{"bad material flag", func(i *InvoiceInput) { i.MaterialReceived = "Maybe" }, "materialReceived"},
		{"negative transfer", func(i *InvoiceInput) { i.TransferAmount = decPtr("-3") }, "transferAmount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mut(&in)
			err := in.Validate()
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tt.field)
		})
	}
}

func TestInvoiceUpdateApply(t *testing.T) {
	inv := newTestInvoice("1000", StatusPending)
	d := NewDate(testNow)
	inv.ReceiptDate = &d

	var u InvoiceUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"clientName":" XYZ Ltd ","currency":"eur","receiptDate":null,"transferAmount":20}`), &u))
	require.NoError(t, u.Validate())
	later := testNow.Add(time.Hour)
	u.Apply(inv, later)

	assert.Equal(t, "XYZ Ltd", inv.ClientName)
	assert.Equal(t, "EUR", inv.Currency)
	assert.Equal(t, "INV-001", inv.InvoiceNumber)
	assert.True(t, inv.TransferAmount.Equal(dec("20")))
	assert.Equal(t, later, inv.UpdatedAt)
}

func TestInvoiceUpdateClearsReceiptDate(t *testing.T) {
	inv := newTestInvoice("1000", StatusPending)
	d := NewDate(testNow)
	inv.ReceiptDate = &d

	var u InvoiceUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"receiptDate":""}`), &u))
	u.Apply(inv, testNow)
	assert.Nil(t, inv.ReceiptDate)
}

func TestInvoiceUpdateRejectsBlankRequired(t *testing.T) {
	tests := []struct {
		body  string
		field string
	}{
		{`{"invoiceNo":"  "}`, "invoiceNo"},
		{`{"clientName":""}`, "clientName"},
		{`{"itemDescription":" "}`, "itemDescription"},
		{`{"bankName":""}`, "bankName"},
		{`{"invoiceDate":""}`, "invoiceDate"},
		{`{"currency":"XYZ"}`, "currency"},
		{`{"invoiceType":"Gift"}`, "invoiceType"},
		{`{"status":"Closed"}`, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			var u InvoiceUpdate
			require.NoError(t, json.Unmarshal([]byte(tt.body), &u))
			err := u.Validate()
			require.ErrorIs(t, err, ErrValidation)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tt.field)
			assert.NotContains(t, ve.Error(), "omitnil")
		})
	}
}

func TestInvoiceUpdateBlankAndInvalidTogether(t *testing.T) {
	var u InvoiceUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"invoiceNo":"","invoiceDate":"","status":"Closed"}`), &u))
	var ve *ValidationError
	require.ErrorAs(t, u.Validate(), &ve)
	assert.Equal(t, "is required", ve.Fields["invoiceNo"])
	assert.Equal(t, "is required", ve.Fields["invoiceDate"])
	assert.Equal(t, "must be one of: Paid, Pending, Partial, Unpaid", ve.Fields["status"])
}

func TestInvoiceUpdateAllowsOmittedFields(t *testing.T) {
	var u InvoiceUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"remarks":"","invoiceDate":null}`), &u))
	require.NoError(t, u.Validate())
}

func TestStatusInput(t *testing.T) {
	require.NoError(t, (&StatusInput{Status: StatusPartial}).Validate())
	require.ErrorIs(t, (&StatusInput{Status: "Done"}).Validate(), ErrValidation)
	require.ErrorIs(t, (&StatusInput{}).Validate(), ErrValidation)
}

func TestDateJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-02-01"`), &d))
	assert.Equal(t, 2026, d.Year())
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-02-01T00:00:00Z"`, string(b))

	require.NoError(t, json.Unmarshal([]byte(`"2026-02-01T10:30:00+05:30"`), &d))
	assert.Equal(t, 5, d.Hour())

	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))

	b, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestDuplicateErrorMessages(t *testing.T) {
	var err error = &DuplicateError{Field: FieldInvoiceNumber}
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, "Invoice number already exists", err.Error())
	assert.Equal(t, "Serial number already exists", (&DuplicateError{Field: FieldSerialNumber}).Error())
}
