package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"milhouse/internal/app/middleware"
)

const (
	idempotencyCollection = "idempotency_keys"
	defaultIdempotencyTTL = 24 * time.Hour
)

// IdempotencyStore persists replayable results of property and contact
// submissions. Mongo's TTL monitor removes them after ttl.
type IdempotencyStore struct {
	col *mongo.Collection
}

func NewIdempotencyStore(db *mongo.Database, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	col := db.Collection(idempotencyCollection)
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "stored_at", Value: 1}},
		Options: options.Index().SetName("stored_at_ttl").SetExpireAfterSeconds(int32(ttl / time.Second)),
	})
	return &IdempotencyStore{col: col}
}

type idempotencyDocument struct {
	Key        string    `bson:"_id"`
	Result     []byte    `bson:"result,omitempty"`
	OccurredAt time.Time `bson:"occurred_at"`
	StoredAt   time.Time `bson:"stored_at"`
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	var doc idempotencyDocument
	err := s.col.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return middleware.IdempotencyRecord{}, false, nil
	case err != nil:
		return middleware.IdempotencyRecord{}, false, fmt.Errorf("mongo: idempotency lookup: %w", err)
	}
	return middleware.IdempotencyRecord{Key: doc.Key, Payload: doc.Result, OccurredAt: doc.OccurredAt}, true, nil
}

// Save keeps the first result for a key; a concurrent duplicate does not
// overwrite it.
func (s *IdempotencyStore) Save(ctx context.Context, rec middleware.IdempotencyRecord) error {
	doc := idempotencyDocument{Key: rec.Key, Result: rec.Payload, OccurredAt: rec.OccurredAt, StoredAt: time.Now().UTC()}
	_, err := s.col.UpdateOne(ctx,
		bson.M{"_id": rec.Key},
		bson.M{"$setOnInsert": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("mongo: idempotency save: %w", err)
	}
	return nil
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
