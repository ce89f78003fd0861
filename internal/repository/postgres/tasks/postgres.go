package tasks

import (
	"context"
	"errors"

	tasksdomain "family-chores-go/internal/domain/tasks"
	"family-chores-go/internal/store"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListTasks returns the newest tasks first.
func (r *PostgresRepository) ListTasks(ctx context.Context, ownerID *string) ([]tasksdomain.Task, error) {
	query := r.db.WithContext(ctx).Model(&tasksdomain.Task{})
	if ownerID != nil {
		query = query.Where("user_id = ?", *ownerID)
	}

	var items []tasksdomain.Task
	if err := query.Order("created_at desc, id asc").Find(&items).Error; err != nil {
		return nil, store.Unavailable(err)
	}
	return items, nil
}

func (r *PostgresRepository) GetTaskByID(ctx context.Context, id string) (*tasksdomain.Task, error) {
	var task tasksdomain.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tasksdomain.ErrTaskNotFound
		}
		return nil, store.Unavailable(err)
	}
	return &task, nil
}

func (r *PostgresRepository) CreateTask(ctx context.Context, task *tasksdomain.Task) error {
	return store.Unavailable(r.db.WithContext(ctx).Create(task).Error)
}

func (r *PostgresRepository) UpdateTask(ctx context.Context, task *tasksdomain.Task) error {
	result := r.db.WithContext(ctx).
		Model(&tasksdomain.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status,
			"category_id": task.CategoryID,
			"assigned_to": task.AssignedTo,
			"deadline":    task.Deadline,
			"updated_at":  task.UpdatedAt,
		})
	if result.Error != nil {
		return store.Unavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return tasksdomain.ErrTaskNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteTask(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&tasksdomain.Task{}, "id = ?", id)
	if result.Error != nil {
		return false, store.Unavailable(result.Error)
	}
	return result.RowsAffected > 0, nil
}
