package tasks

import "context"

type Repository interface {
	// ListTasks returns every task when ownerID is nil.
	ListTasks(ctx context.Context, ownerID *string) ([]Task, error)
	GetTaskByID(ctx context.Context, id string) (*Task, error)
	CreateTask(ctx context.Context, task *Task) error
	UpdateTask(ctx context.Context, task *Task) error
	// DeleteTask reports whether a record was removed.
	DeleteTask(ctx context.Context, id string) (bool, error)
}
