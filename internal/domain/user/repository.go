package user

import (
	"context"
	"errors"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrUserIDRequired  = errors.New("user id is required")
)

type Repository interface {
	// UpsertProfile creates the profile or overwrites the non-nil fields of
	// an existing one.
	UpsertProfile(ctx context.Context, profile *Profile) error
	GetProfile(ctx context.Context, userID string) (*Profile, error)
}
