// Package collection wraps one record store collection with typed,
// whole-collection read-modify-write.
package collection

import (
	"context"
	"sync"

	"family-chores-go/internal/store"
)

// Collection serializes its own read-modify-write cycles. Writers in other
// processes sharing the same store are not coordinated: the last Put wins.
type Collection[T any] struct {
	store store.Store
	name  string
	mu    sync.Mutex
}

func New[T any](s store.Store, name string) *Collection[T] {
	return &Collection[T]{store: s, name: name}
}

func (c *Collection[T]) Name() string {
	return c.name
}

// All returns every record. An absent collection reads as empty.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	items, _, err := store.Load[T](ctx, c.store, c.name)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Find returns the first record matching match.
func (c *Collection[T]) Find(ctx context.Context, match func(T) bool) (*T, bool, error) {
	items, err := c.All(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range items {
		if match(items[i]) {
			item := items[i]
			return &item, true, nil
		}
	}
	return nil, false, nil
}

// Mutate loads the collection, applies fn and writes the result back. When fn
// returns an error nothing is written.
func (c *Collection[T]) Mutate(ctx context.Context, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.All(ctx)
	if err != nil {
		return err
	}
	next, err := fn(items)
	if err != nil {
		return err
	}
	return store.Save(ctx, c.store, c.name, next)
}

// Append adds item at the end of the collection.
func (c *Collection[T]) Append(ctx context.Context, item T) error {
	return c.Mutate(ctx, func(items []T) ([]T, error) {
		return append(items, item), nil
	})
}

// Replace swaps the first record matching match for item. It reports whether
// a record matched; nothing is written when none did.
func (c *Collection[T]) Replace(ctx context.Context, match func(T) bool, item T) (bool, error) {
	replaced := false
	err := c.Mutate(ctx, func(items []T) ([]T, error) {
		for i := range items {
			if match(items[i]) {
				items[i] = item
				replaced = true
				return items, nil
			}
		}
		return nil, errNoMatch
	})
	if err == errNoMatch {
		return false, nil
	}
	return replaced, err
}

// Remove drops every record matching match and reports how many were removed.
// The collection is rewritten even when nothing matched.
func (c *Collection[T]) Remove(ctx context.Context, match func(T) bool) (int, error) {
	removed := 0
	err := c.Mutate(ctx, func(items []T) ([]T, error) {
		kept := items[:0]
		for _, item := range items {
			if match(item) {
				removed++
				continue
			}
			kept = append(kept, item)
		}
		return kept, nil
	})
	return removed, err
}

type sentinel string

func (s sentinel) Error() string { return string(s) }

const errNoMatch = sentinel("collection: no match")
