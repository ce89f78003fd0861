package tasks

import "errors"

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrCategoryNotFound = errors.New("category not found")
	ErrAssigneeNotFound = errors.New("assignee not found")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)
