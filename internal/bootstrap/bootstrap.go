// Package bootstrap prepares a record store before any service uses it.
package bootstrap

import (
	"context"
	"fmt"

	"family-chores-go/internal/domain/categories"
	"family-chores-go/internal/store"
	"family-chores-go/pkg/logger"
)

// emptyCollections are created as [] when they have never been written.
var emptyCollections = []string{
	store.CollectionFamilyMembers,
	store.CollectionTasks,
	store.CollectionFamilies,
	store.CollectionFamilyInvites,
	store.CollectionUserProfiles,
}

// Initialize seeds the default categories when the category collection is
// absent or empty, and creates the other collections when absent. Existing
// values are never overwritten. It is safe to call on every start.
func Initialize(ctx context.Context, s store.Store, log logger.Logger) error {
	log = logger.OrNop(log).With("component", "bootstrap")

	existing, _, err := store.Load[categories.Category](ctx, s, store.CollectionCategories)
	if err != nil {
		return fmt.Errorf("bootstrap %s: %w", store.CollectionCategories, err)
	}
	if len(existing) == 0 {
		if err := store.Save(ctx, s, store.CollectionCategories, categories.Defaults()); err != nil {
			return fmt.Errorf("bootstrap %s: %w", store.CollectionCategories, err)
		}
		log.Info("bootstrap: seeded default categories", "count", len(categories.Defaults()))
	}

	for _, name := range emptyCollections {
		_, found, err := s.Get(ctx, name)
		if err != nil {
			return fmt.Errorf("bootstrap %s: %w", name, err)
		}
		if found {
			continue
		}
		if err := s.Put(ctx, name, nil); err != nil {
			return fmt.Errorf("bootstrap %s: %w", name, err)
		}
		log.Debug("bootstrap: created collection", "collection", name)
	}

	return nil
}
