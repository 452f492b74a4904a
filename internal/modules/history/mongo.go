package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBackend keeps each slot as one document of the kv_store collection.
type MongoBackend struct {
	collection *mongo.Collection
	slot       string
}

type slotDocument struct {
	Slot      string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func NewMongoBackend(db *mongo.Database, slot string) *MongoBackend {
	if slot == "" {
		slot = Slot
	}
	return &MongoBackend{collection: db.Collection("kv_store"), slot: slot}
}

func (r *MongoBackend) Load(ctx context.Context) ([]byte, error) {
	var doc slotDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": r.slot}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot load %s: %w", r.slot, err)
	}
	return []byte(doc.Payload), nil
}

func (r *MongoBackend) Save(ctx context.Context, data []byte) error {
	doc := slotDocument{Slot: r.slot, Payload: string(data), UpdatedAt: time.Now().UTC()}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": r.slot}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("cannot save %s: %w", r.slot, err)
	}
	return nil
}
