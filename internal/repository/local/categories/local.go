package categories

import (
	"context"

	categoriesdomain "family-chores-go/internal/domain/categories"
	"family-chores-go/internal/repository/local/collection"
	"family-chores-go/internal/store"
)

type LocalRepository struct {
	categories *collection.Collection[categoriesdomain.Category]
}

func NewLocal(s store.Store) *LocalRepository {
	return &LocalRepository{
		categories: collection.New[categoriesdomain.Category](s, store.CollectionCategories),
	}
}

func byID(id string) func(categoriesdomain.Category) bool {
	return func(c categoriesdomain.Category) bool { return c.ID == id }
}

func (r *LocalRepository) ListCategories(ctx context.Context) ([]categoriesdomain.Category, error) {
	return r.categories.All(ctx)
}

func (r *LocalRepository) GetCategoryByID(ctx context.Context, id string) (*categoriesdomain.Category, error) {
	category, ok, err := r.categories.Find(ctx, byID(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, categoriesdomain.ErrCategoryNotFound
	}
	return category, nil
}

func (r *LocalRepository) CreateCategory(ctx context.Context, category *categoriesdomain.Category) error {
	return r.categories.Append(ctx, *category)
}

func (r *LocalRepository) UpdateCategory(ctx context.Context, category *categoriesdomain.Category) error {
	ok, err := r.categories.Replace(ctx, byID(category.ID), *category)
	if err != nil {
		return err
	}
	if !ok {
		return categoriesdomain.ErrCategoryNotFound
	}
	return nil
}

func (r *LocalRepository) DeleteCategory(ctx context.Context, id string) error {
	_, err := r.categories.Remove(ctx, byID(id))
	return err
}
