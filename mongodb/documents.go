package mongodb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/satheeshds/invoicing/models"
)

const (
	fieldID            = "_id"
	fieldSerialNumber  = "srNo"
	fieldInvoiceNumber = "invoiceNo"
	fieldClientName    = "clientName"
	fieldInvoiceDate   = "invoiceDate"
	fieldInvoiceType   = "invoiceType"
	fieldStatus        = "status"
	fieldNumber        = "number"
	fieldAvailable     = "available"
)

type invoiceDoc struct {
	ID                  primitive.ObjectID `bson:"_id"`
	SerialNumber        int                `bson:"srNo"`
	InvoiceNumber       string             `bson:"invoiceNo"`
	ClientName          string             `bson:"clientName"`
	ItemDescription     string             `bson:"itemDescription"`
	InvoiceDate         time.Time          `bson:"invoiceDate"`
	InvoiceAmount       amount             `bson:"invoiceAmount"`
	Currency            string             `bson:"currency"`
	InvoiceType         string             `bson:"invoiceType"`
	TransferAmount      amount             `bson:"transferAmount"`
	BankName            string             `bson:"bankName"`
	BankReferenceNumber string             `bson:"bankRefNumber"`
	BankTransferDate    string             `bson:"bankTransferDate"`
	Status              string             `bson:"status"`
	Remarks             string             `bson:"remarks"`
	MaterialReceived    string             `bson:"materialReceived"`
	ReceiptDate         *time.Time         `bson:"receiptDate"`
	CourierName         string             `bson:"courierName"`
	BillingCustomer     string             `bson:"billingCustomer"`
	Payments            []paymentDoc       `bson:"payments"`
	CreatedAt           time.Time          `bson:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt"`
}

type paymentDoc struct {
	ID          paymentID `bson:"_id"`
	Amount      amount    `bson:"amount"`
	PaymentType string    `bson:"paymentType"`
	PaymentDate time.Time `bson:"paymentDate"`
	Remarks     string    `bson:"remarks"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

type serialDoc struct {
	Number    int       `bson:"number"`
	Available bool      `bson:"available"`
	DeletedAt time.Time `bson:"deletedAt"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type statusGroupDoc struct {
	Status           string `bson:"_id"`
	Count            int    `bson:"count"`
	TotalAmount      amount `bson:"totalAmount"`
	TotalTransferred amount `bson:"totalTransferred"`
}

// amount is a money value written as Decimal128. Documents saved by older
// clients hold doubles, integers or strings; those decode too.
type amount decimal.Decimal

func (a amount) Decimal() decimal.Decimal { return decimal.Decimal(a) }

func (a amount) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d, err := primitive.ParseDecimal128(a.Decimal().String())
	if err != nil {
		return 0, nil, err
	}
	return bson.MarshalValue(d)
}

func (a *amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	var (
		d   decimal.Decimal
		err error
	)
	switch t {
	case bson.TypeDecimal128:
		d, err = decimal.NewFromString(raw.Decimal128().String())
	case bson.TypeDouble:
		d = decimal.NewFromFloat(raw.Double())
	case bson.TypeInt32:
		d = decimal.NewFromInt32(raw.Int32())
	case bson.TypeInt64:
		d = decimal.NewFromInt(raw.Int64())
	case bson.TypeString:
		d, err = decimal.NewFromString(raw.StringValue())
	case bson.TypeNull, bson.TypeUndefined:
		d = decimal.Zero
	default:
		return fmt.Errorf("cannot decode %s into an amount", t)
	}
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = amount(d)
	return nil
}

// paymentID is written as a string. ObjectId ids from older documents read
// as their hex form and are rewritten as strings on the next save.
type paymentID string

func (id *paymentID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeString:
		*id = paymentID(raw.StringValue())
	case bson.TypeObjectID:
		*id = paymentID(raw.ObjectID().Hex())
	default:
		return fmt.Errorf("cannot decode %s into a payment id", t)
	}
	return nil
}

func toInvoiceDoc(inv *models.Invoice) (*invoiceDoc, error) {
	id, err := primitive.ObjectIDFromHex(inv.ID)
	if err != nil {
		return nil, models.ErrNotFound
	}
	doc := &invoiceDoc{
		ID:                  id,
		SerialNumber:        inv.SerialNumber,
		InvoiceNumber:       inv.InvoiceNumber,
		ClientName:          inv.ClientName,
		ItemDescription:     inv.ItemDescription,
		InvoiceDate:         inv.InvoiceDate.Time,
		InvoiceAmount:       amount(inv.InvoiceAmount),
		Currency:            inv.Currency,
		InvoiceType:         string(inv.InvoiceType),
		TransferAmount:      amount(inv.TransferAmount),
		BankName:            inv.BankName,
		BankReferenceNumber: inv.BankReferenceNumber,
		BankTransferDate:    inv.BankTransferDate,
		Status:              string(inv.Status),
		Remarks:             inv.Remarks,
		MaterialReceived:    inv.MaterialReceived,
		CourierName:         inv.CourierName,
		BillingCustomer:     inv.BillingCustomer,
		Payments:            make([]paymentDoc, 0, len(inv.Payments)),
		CreatedAt:           inv.CreatedAt,
		UpdatedAt:           inv.UpdatedAt,
	}
	if inv.ReceiptDate != nil && !inv.ReceiptDate.IsZero() {
		t := inv.ReceiptDate.Time
		doc.ReceiptDate = &t
	}
	for _, p := range inv.Payments {
		doc.Payments = append(doc.Payments, paymentDoc{
			ID:          paymentID(p.ID),
			Amount:      amount(p.Amount),
			PaymentType: p.PaymentType,
			PaymentDate: p.PaymentDate,
			Remarks:     p.Remarks,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}
	return doc, nil
}

func (d *invoiceDoc) toModel() *models.Invoice {
	inv := &models.Invoice{
		ID:                  d.ID.Hex(),
		SerialNumber:        d.SerialNumber,
		InvoiceNumber:       d.InvoiceNumber,
		ClientName:          d.ClientName,
		ItemDescription:     d.ItemDescription,
		InvoiceDate:         models.NewDate(d.InvoiceDate),
		InvoiceAmount:       d.InvoiceAmount.Decimal(),
		Currency:            d.Currency,
		InvoiceType:         models.InvoiceType(d.InvoiceType),
		TransferAmount:      d.TransferAmount.Decimal(),
		BankName:            d.BankName,
		BankReferenceNumber: d.BankReferenceNumber,
		BankTransferDate:    d.BankTransferDate,
		Status:              models.Status(d.Status),
		Remarks:             d.Remarks,
		MaterialReceived:    d.MaterialReceived,
		CourierName:         d.CourierName,
		BillingCustomer:     d.BillingCustomer,
		Payments:            make([]models.Payment, 0, len(d.Payments)),
		CreatedAt:           d.CreatedAt.UTC(),
		UpdatedAt:           d.UpdatedAt.UTC(),
	}
	if d.ReceiptDate != nil {
		rd := models.NewDate(*d.ReceiptDate)
		inv.ReceiptDate = &rd
	}
	for _, p := range d.Payments {
		inv.Payments = append(inv.Payments, models.Payment{
			ID:          string(p.ID),
			Amount:      p.Amount.Decimal(),
			PaymentType: p.PaymentType,
			PaymentDate: p.PaymentDate.UTC(),
			Remarks:     p.Remarks,
			CreatedAt:   p.CreatedAt.UTC(),
			UpdatedAt:   p.UpdatedAt.UTC(),
		})
	}
	return inv
}
