package memory

import (
	"context"
	"encoding/json"
	"sync"

	"family-chores-go/internal/store"
)

// Store keeps collections in process memory. Records are copied on the way in
// and out so callers never share backing arrays.
type Store struct {
	mu          sync.RWMutex
	collections map[string][]json.RawMessage
	failWith    error
}

func New() *Store {
	return &Store{
		collections: make(map[string][]json.RawMessage),
	}
}

func (s *Store) Get(ctx context.Context, collection string) ([]json.RawMessage, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, store.Unavailable(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failWith != nil {
		return nil, false, store.Unavailable(s.failWith)
	}

	records, ok := s.collections[collection]
	if !ok {
		return nil, false, nil
	}
	return cloneRecords(records), true, nil
}

func (s *Store) Put(ctx context.Context, collection string, records []json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return store.Unavailable(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return store.Unavailable(s.failWith)
	}

	s.collections[collection] = cloneRecords(records)
	return nil
}

// SetFailure makes every subsequent call fail with err until cleared with nil.
func (s *Store) SetFailure(err error) {
	s.mu.Lock()
	s.failWith = err
	s.mu.Unlock()
}

func (s *Store) Close() error {
	return nil
}

func cloneRecords(records []json.RawMessage) []json.RawMessage {
	cloned := make([]json.RawMessage, len(records))
	for i, record := range records {
		cloned[i] = append(json.RawMessage(nil), record...)
	}
	return cloned
}
