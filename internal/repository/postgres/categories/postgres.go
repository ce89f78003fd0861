package categories

import (
	"context"
	"errors"

	categoriesdomain "family-chores-go/internal/domain/categories"
	"family-chores-go/internal/store"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]categoriesdomain.Category, error) {
	var items []categoriesdomain.Category
	if err := r.db.WithContext(ctx).Order("name asc, id asc").Find(&items).Error; err != nil {
		return nil, store.Unavailable(err)
	}
	return items, nil
}

func (r *PostgresRepository) GetCategoryByID(ctx context.Context, id string) (*categoriesdomain.Category, error) {
	var category categoriesdomain.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, categoriesdomain.ErrCategoryNotFound
		}
		return nil, store.Unavailable(err)
	}
	return &category, nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, category *categoriesdomain.Category) error {
	return store.Unavailable(r.db.WithContext(ctx).Create(category).Error)
}

func (r *PostgresRepository) UpdateCategory(ctx context.Context, category *categoriesdomain.Category) error {
	result := r.db.WithContext(ctx).
		Model(&categoriesdomain.Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name": category.Name,
			"icon": category.Icon,
		})
	if result.Error != nil {
		return store.Unavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return categoriesdomain.ErrCategoryNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, id string) error {
	return store.Unavailable(r.db.WithContext(ctx).Delete(&categoriesdomain.Category{}, "id = ?", id).Error)
}
