package tasks

import (
	"context"

	tasksdomain "family-chores-go/internal/domain/tasks"
	"family-chores-go/internal/repository/local/collection"
	"family-chores-go/internal/store"
)

// LocalRepository keeps tasks in insertion order.
type LocalRepository struct {
	tasks *collection.Collection[tasksdomain.Task]
}

func NewLocal(s store.Store) *LocalRepository {
	return &LocalRepository{
		tasks: collection.New[tasksdomain.Task](s, store.CollectionTasks),
	}
}

func byID(id string) func(tasksdomain.Task) bool {
	return func(t tasksdomain.Task) bool { return t.ID == id }
}

func (r *LocalRepository) ListTasks(ctx context.Context, ownerID *string) ([]tasksdomain.Task, error) {
	items, err := r.tasks.All(ctx)
	if err != nil || ownerID == nil {
		return items, err
	}

	owned := make([]tasksdomain.Task, 0, len(items))
	for _, item := range items {
		if item.OwnedBy(*ownerID) {
			owned = append(owned, item)
		}
	}
	return owned, nil
}

func (r *LocalRepository) GetTaskByID(ctx context.Context, id string) (*tasksdomain.Task, error) {
	task, ok, err := r.tasks.Find(ctx, byID(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, tasksdomain.ErrTaskNotFound
	}
	return task, nil
}

func (r *LocalRepository) CreateTask(ctx context.Context, task *tasksdomain.Task) error {
	return r.tasks.Append(ctx, *task)
}

func (r *LocalRepository) UpdateTask(ctx context.Context, task *tasksdomain.Task) error {
	ok, err := r.tasks.Replace(ctx, byID(task.ID), *task)
	if err != nil {
		return err
	}
	if !ok {
		return tasksdomain.ErrTaskNotFound
	}
	return nil
}

func (r *LocalRepository) DeleteTask(ctx context.Context, id string) (bool, error) {
	removed, err := r.tasks.Remove(ctx, byID(id))
	return removed > 0, err
}
