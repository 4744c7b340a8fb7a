package syncstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type item struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"` // JSON document
	UpdatedAt time.Time `bson:"updated_at"`
}

// Mongo stores each key as one document of the sync collection.
type Mongo struct {
	coll *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{coll: db.Collection("sync")}
}

func (m *Mongo) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	cursor, err := m.coll.Find(ctx, bson.M{"_id": bson.M{"$in": keys}})
	if err != nil {
		return nil, fmt.Errorf("find sync items: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []item
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode sync items: %w", err)
	}
	for _, d := range docs {
		out[d.Key] = json.RawMessage(d.Value)
	}
	return out, nil
}

func (m *Mongo) Set(ctx context.Context, items map[string]any) error {
	encoded, err := encodeItems(items)
	if err != nil {
		return err
	}

	now := time.Now()
	for k, v := range encoded {
		doc := item{Key: k, Value: string(v), UpdatedAt: now}
		_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": k}, doc, options.Replace().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("replace %q: %w", k, err)
		}
	}
	return nil
}
