package categories

import "errors"

var (
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryReadOnly     = errors.New("shared category cannot be modified")
	ErrNoFieldsToUpdate     = errors.New("no fields to update")
)
