// Package mongodb is the MongoDB storage backend. Documents keep the field
// names used by the existing invoice collections, and amounts or payment ids
// written in their older numeric and ObjectId forms still decode.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	CollectionInvoices      = "invoices"
	CollectionSerialNumbers = "serialnumbers"
)

// Index names. Duplicate key errors are mapped back to fields by name.
const (
	indexInvoiceNumber = "invoiceNo_1"
	indexSerialNumber  = "srNo_1"
	indexPoolNumber    = "number_1"
)

// Open connects to uri and returns the named database.
func Open(ctx context.Context, uri, database string) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	slog.Info("mongodb connected", "database", database)
	return client.Database(database), nil
}

// EnsureIndexes creates the unique and lookup indexes both collections rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(CollectionInvoices).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: fieldInvoiceNumber, Value: 1}}, Options: options.Index().SetName(indexInvoiceNumber).SetUnique(true)},
		{Keys: bson.D{{Key: fieldSerialNumber, Value: 1}}, Options: options.Index().SetName(indexSerialNumber).SetUnique(true)},
		{Keys: bson.D{{Key: fieldClientName, Value: 1}}},
		{Keys: bson.D{{Key: fieldStatus, Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("creating invoice indexes: %w", err)
	}
	_, err = db.Collection(CollectionSerialNumbers).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: fieldNumber, Value: 1}}, Options: options.Index().SetName(indexPoolNumber).SetUnique(true)},
		{Keys: bson.D{{Key: fieldAvailable, Value: 1}, {Key: fieldNumber, Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("creating serial number indexes: %w", err)
	}
	return nil
}
