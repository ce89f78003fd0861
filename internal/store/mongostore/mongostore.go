package mongostore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"family-chores-go/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "record_collections"

// document is one whole collection. Records are kept as the raw JSON array so
// the payload is byte-compatible with the other backends.
type document struct {
	Name      string    `bson:"_id"`
	Records   string    `bson:"records"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type Store struct {
	client *mongo.Client
	c      *mongo.Collection
}

func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, store.Unavailable(fmt.Errorf("mongo connect: %w", err))
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, store.Unavailable(fmt.Errorf("mongo ping: %w", err))
	}
	return &Store{client: client, c: client.Database(database).Collection(collectionName)}, nil
}

func (s *Store) Get(ctx context.Context, collection string) ([]json.RawMessage, bool, error) {
	var doc document
	err := s.c.FindOne(ctx, bson.M{"_id": collection}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, store.Unavailable(fmt.Errorf("mongo find %s: %w", collection, err))
	}

	records, err := store.DecodeCollection([]byte(doc.Records))
	if err != nil {
		return nil, true, store.Unavailable(fmt.Errorf("decode %s: %w", collection, err))
	}
	return records, true, nil
}

func (s *Store) Put(ctx context.Context, collection string, records []json.RawMessage) error {
	payload, err := store.EncodeCollection(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}

	doc := document{
		Name:      collection,
		Records:   string(payload),
		UpdatedAt: time.Now().UTC(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.c.ReplaceOne(ctx, bson.M{"_id": collection}, doc, opts); err != nil {
		return store.Unavailable(fmt.Errorf("mongo replace %s: %w", collection, err))
	}
	return nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
