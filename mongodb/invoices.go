package mongodb

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/satheeshds/invoicing/models"
	"github.com/satheeshds/invoicing/store"
)

// InvoicesDAO stores each invoice as one document with its payments embedded.
type InvoicesDAO struct {
	invoices *mongo.Collection
}

// NewInvoicesDAO returns a DAO over db.
func NewInvoicesDAO(db *mongo.Database) *InvoicesDAO {
	return &InvoicesDAO{invoices: db.Collection(CollectionInvoices)}
}

func (d *InvoicesDAO) NewID() string { return primitive.NewObjectID().Hex() }

func listFilter(f store.Filter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter[fieldStatus] = string(f.Status)
	}
	if f.ClientName != "" {
		filter[fieldClientName] = primitive.Regex{Pattern: regexp.QuoteMeta(f.ClientName), Options: "i"}
	}
	if f.InvoiceType != "" {
		filter[fieldInvoiceType] = string(f.InvoiceType)
	}
	if f.From != nil || f.To != nil {
		dates := bson.M{}
		if f.From != nil {
			dates["$gte"] = *f.From
		}
		if f.To != nil {
			dates["$lte"] = *f.To
		}
		filter[fieldInvoiceDate] = dates
	}
	return filter
}

func (d *InvoicesDAO) List(ctx context.Context, f store.Filter) ([]models.Invoice, error) {
	opts := options.Find().SetSort(bson.D{{Key: fieldSerialNumber, Value: 1}})
	cur, err := d.invoices.Find(ctx, listFilter(f), opts)
	if err != nil {
		return nil, mapError("find invoices", err)
	}
	var docs []invoiceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapError("decode invoices", err)
	}
	out := make([]models.Invoice, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toModel())
	}
	return out, nil
}

func (d *InvoicesDAO) findOne(ctx context.Context, op string, filter bson.M) (*models.Invoice, error) {
	var doc invoiceDoc
	if err := d.invoices.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapError(op, err)
	}
	return doc.toModel(), nil
}

func (d *InvoicesDAO) Get(ctx context.Context, id string) (*models.Invoice, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	return d.findOne(ctx, "find invoice", bson.M{fieldID: oid})
}

func (d *InvoicesDAO) GetByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.Invoice, error) {
	return d.findOne(ctx, "find invoice by number", bson.M{fieldInvoiceNumber: invoiceNumber})
}

func (d *InvoicesDAO) Insert(ctx context.Context, inv *models.Invoice) error {
	doc, err := toInvoiceDoc(inv)
	if err != nil {
		return err
	}
	_, err = d.invoices.InsertOne(ctx, doc)
	return mapError("insert invoice", err)
}

func (d *InvoicesDAO) Replace(ctx context.Context, inv *models.Invoice) error {
	doc, err := toInvoiceDoc(inv)
	if err != nil {
		return err
	}
	res, err := d.invoices.ReplaceOne(ctx, bson.M{fieldID: doc.ID}, doc)
	if err != nil {
		return mapError("replace invoice", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (d *InvoicesDAO) Delete(ctx context.Context, id string) (*models.Invoice, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	var doc invoiceDoc
	if err := d.invoices.FindOneAndDelete(ctx, bson.M{fieldID: oid}).Decode(&doc); err != nil {
		return nil, mapError("delete invoice", err)
	}
	return doc.toModel(), nil
}

func (d *InvoicesDAO) MaxSerial(ctx context.Context) (int, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: fieldSerialNumber, Value: -1}}).
		SetProjection(bson.M{fieldSerialNumber: 1})
	var doc struct {
		SerialNumber int `bson:"srNo"`
	}
	err := d.invoices.FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, mapError("max serial number", err)
	}
	return doc.SerialNumber, nil
}

func (d *InvoicesDAO) Summarize(ctx context.Context) (models.Summary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + fieldStatus},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "totalAmount", Value: bson.D{{Key: "$sum", Value: "$invoiceAmount"}}},
			{Key: "totalTransferred", Value: bson.D{{Key: "$sum", Value: "$transferAmount"}}},
		}}},
	}
	cur, err := d.invoices.Aggregate(ctx, pipeline)
	if err != nil {
		return models.Summary{}, mapError("summarize invoices", err)
	}
	var docs []statusGroupDoc
	if err := cur.All(ctx, &docs); err != nil {
		return models.Summary{}, mapError("decode summary", err)
	}
	groups := make([]models.StatusGroup, 0, len(docs))
	for _, g := range docs {
		groups = append(groups, models.StatusGroup{
			Status:           models.Status(g.Status),
			Count:            g.Count,
			TotalAmount:      g.TotalAmount.Decimal(),
			TotalTransferred: g.TotalTransferred.Decimal(),
		})
	}
	return models.NewSummary(groups), nil
}

func (d *InvoicesDAO) Ping(ctx context.Context) error {
	return mapError("ping", d.invoices.Database().Client().Ping(ctx, nil))
}
