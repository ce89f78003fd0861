// Package store defines the record store: named collections of JSON records
// that are always read and written whole.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	CollectionCategories    = "categories"
	CollectionFamilyMembers = "family_members"
	CollectionTasks         = "tasks"
	CollectionFamilies      = "families"
	CollectionFamilyInvites = "family_invites"
	CollectionUserProfiles  = "user_profiles"
)

var ErrUnavailable = errors.New("store unavailable")

// Store persists collections. Put replaces the whole collection; there is no
// row-level write. Get reports found=false when the collection was never
// written, which is different from an empty collection.
type Store interface {
	Get(ctx context.Context, collection string) ([]json.RawMessage, bool, error)
	Put(ctx context.Context, collection string, records []json.RawMessage) error
	Close() error
}

type unavailableError struct {
	cause error
}

func (e *unavailableError) Error() string {
	return fmt.Sprintf("%s: %v", ErrUnavailable, e.cause)
}

func (e *unavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

func (e *unavailableError) Unwrap() error {
	return e.cause
}

// Unavailable marks err as a backend failure. Nil stays nil and errors that
// are already marked are returned as is.
func Unavailable(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}
	return &unavailableError{cause: err}
}

// Load decodes a collection into typed records.
func Load[T any](ctx context.Context, s Store, collection string) ([]T, bool, error) {
	raw, found, err := s.Get(ctx, collection)
	if err != nil {
		return nil, false, err
	}

	items := make([]T, 0, len(raw))
	for i, record := range raw {
		var item T
		if err := json.Unmarshal(record, &item); err != nil {
			return nil, found, Unavailable(fmt.Errorf("decode %s[%d]: %w", collection, i, err))
		}
		items = append(items, item)
	}
	return items, found, nil
}

// Save encodes typed records and replaces the collection.
func Save[T any](ctx context.Context, s Store, collection string, items []T) error {
	raw := make([]json.RawMessage, 0, len(items))
	for i := range items {
		record, err := json.Marshal(items[i])
		if err != nil {
			return fmt.Errorf("encode %s[%d]: %w", collection, i, err)
		}
		raw = append(raw, record)
	}
	return s.Put(ctx, collection, raw)
}

// EncodeCollection turns records into the single JSON array document the
// key-value backends persist.
func EncodeCollection(records []json.RawMessage) ([]byte, error) {
	if records == nil {
		records = []json.RawMessage{}
	}
	return json.Marshal(records)
}

func DecodeCollection(payload []byte) ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	return records, nil
}
