package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/satheeshds/invoicing/models"
)

// SerialsDAO keeps released serial numbers in their own collection.
type SerialsDAO struct {
	serials *mongo.Collection
}

// NewSerialsDAO returns a DAO over db.
func NewSerialsDAO(db *mongo.Database) *SerialsDAO {
	return &SerialsDAO{serials: db.Collection(CollectionSerialNumbers)}
}

// ClaimSmallest removes and returns the smallest available number with a
// single findAndModify.
func (d *SerialsDAO) ClaimSmallest(ctx context.Context) (int, bool, error) {
	opts := options.FindOneAndDelete().SetSort(bson.D{{Key: fieldNumber, Value: 1}})
	var doc serialDoc
	err := d.serials.FindOneAndDelete(ctx, bson.M{fieldAvailable: true}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, mapError("claim serial number", err)
	}
	return doc.Number, true, nil
}

func (d *SerialsDAO) Release(ctx context.Context, n int, at time.Time) error {
	_, err := d.serials.InsertOne(ctx, serialDoc{
		Number:    n,
		Available: true,
		DeletedAt: at,
		CreatedAt: at,
		UpdatedAt: at,
	})
	return mapError("release serial number", err)
}

// Entries lists pooled numbers in ascending order.
func (d *SerialsDAO) Entries(ctx context.Context) ([]models.SerialPoolEntry, error) {
	cur, err := d.serials.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: fieldNumber, Value: 1}}))
	if err != nil {
		return nil, mapError("list serial numbers", err)
	}
	var docs []serialDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mapError("decode serial numbers", err)
	}
	out := make([]models.SerialPoolEntry, 0, len(docs))
	for _, doc := range docs {
		out = append(out, models.SerialPoolEntry{Number: doc.Number, Available: doc.Available, DeletedAt: doc.DeletedAt.UTC()})
	}
	return out, nil
}
