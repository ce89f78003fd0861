package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"family-chores-go/internal/store"
	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "@tarefas:"

// Store maps every collection to one string key holding the JSON array.
type Store struct {
	client *redis.Client
	prefix string
}

func New(ctx context.Context, url, prefix string, poolSize int) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if poolSize > 0 {
		opts.PoolSize = poolSize
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, store.Unavailable(fmt.Errorf("redis ping: %w", err))
	}

	return NewWithClient(client, prefix), nil
}

func NewWithClient(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) Key(collection string) string {
	return s.prefix + collection
}

func (s *Store) Get(ctx context.Context, collection string) ([]json.RawMessage, bool, error) {
	payload, err := s.client.Get(ctx, s.Key(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, store.Unavailable(fmt.Errorf("redis get %s: %w", collection, err))
	}

	records, err := store.DecodeCollection(payload)
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
	if err := s.client.Set(ctx, s.Key(collection), payload, 0).Err(); err != nil {
		return store.Unavailable(fmt.Errorf("redis set %s: %w", collection, err))
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
