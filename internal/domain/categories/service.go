package categories

import (
	"context"
	"errors"
	"strings"

	"family-chores-go/internal/domain/identity"
	"family-chores-go/internal/store"
	"family-chores-go/pkg/logger"
	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	scope identity.Scope
	log   logger.Logger
}

func NewService(repo Repository, scope identity.Scope, log logger.Logger) *Service {
	return &Service{
		repo:  repo,
		scope: scope,
		log:   logger.OrNop(log).With("component", "categories"),
	}
}

func (s *Service) Scope() identity.Scope {
	return s.scope
}

func (s *Service) GetCategories(ctx context.Context, userID string) ([]Category, error) {
	userID, err := s.scope.RequireUser(userID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListCategories(ctx)
	if err != nil {
		if s.scope == identity.ScopeGlobal && errors.Is(err, store.ErrUnavailable) {
			s.log.InternalError("categories.list: store unavailable, serving defaults", err)
			return Defaults(), nil
		}
		s.log.InternalError("categories.list: list categories failed", err, "user_id", userID)
		return nil, err
	}

	if s.scope == identity.ScopeGlobal {
		if len(items) == 0 {
			return Defaults(), nil
		}
		return items, nil
	}

	visible := make([]Category, 0, len(items))
	for _, item := range items {
		if s.visible(item, userID) {
			visible = append(visible, item)
		}
	}
	return visible, nil
}

func (s *Service) GetCategoryByID(ctx context.Context, userID, id string) (*Category, bool, error) {
	userID, err := s.scope.RequireUser(userID)
	if err != nil {
		return nil, false, err
	}

	category, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return s.defaultByID(ctx, id)
		}
		s.log.InternalError("categories.get: get category failed", err, "category_id", id)
		return nil, false, err
	}
	if !s.visible(*category, userID) {
		return nil, false, nil
	}
	return category, true, nil
}

func (s *Service) CreateCategory(ctx context.Context, userID string, input CreateCategoryInput) (*Category, error) {
	userID, err := s.scope.RequireUser(userID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	category := Category{
		ID:   uuid.NewString(),
		Name: name,
		Icon: strings.TrimSpace(input.Icon),
	}
	if userID != "" {
		owner := userID
		category.OwnerID = &owner
	}

	if err := s.seedDefaults(ctx); err != nil {
		return nil, err
	}
	if err := s.repo.CreateCategory(ctx, &category); err != nil {
		s.log.InternalError("categories.create: create category failed", err, "user_id", userID)
		return nil, err
	}
	return &category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, userID, id string, input UpdateCategoryInput) (*Category, error) {
	if input.Empty() {
		return nil, ErrNoFieldsToUpdate
	}
	userID, err := s.scope.RequireUser(userID)
	if err != nil {
		return nil, err
	}
	if isDefaultID(id) {
		if err := s.seedDefaults(ctx); err != nil {
			return nil, err
		}
	}

	category, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrCategoryNotFound) {
			s.log.InternalError("categories.update: get category failed", err, "category_id", id)
		}
		return nil, err
	}
	if err := s.checkWritable(*category, userID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrCategoryNameRequired
		}
		category.Name = name
	}
	if input.Icon != nil {
		category.Icon = strings.TrimSpace(*input.Icon)
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		if !errors.Is(err, ErrCategoryNotFound) {
			s.log.InternalError("categories.update: update category failed", err, "category_id", id)
		}
		return nil, err
	}
	return category, nil
}

// DeleteCategory is a no-op for ids that do not exist.
func (s *Service) DeleteCategory(ctx context.Context, userID, id string) error {
	userID, err := s.scope.RequireUser(userID)
	if err != nil {
		return err
	}
	if isDefaultID(id) {
		if err := s.seedDefaults(ctx); err != nil {
			return err
		}
	}

	category, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil
		}
		s.log.InternalError("categories.delete: get category failed", err, "category_id", id)
		return err
	}
	if err := s.checkWritable(*category, userID); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return nil
		}
		return err
	}

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		s.log.InternalError("categories.delete: delete category failed", err, "category_id", id)
		return err
	}
	return nil
}

// defaultByID resolves id against the built-in set while the global
// collection is still empty, matching what GetCategories serves.
func (s *Service) defaultByID(ctx context.Context, id string) (*Category, bool, error) {
	if s.scope != identity.ScopeGlobal {
		return nil, false, nil
	}
	items, err := s.repo.ListCategories(ctx)
	if err != nil || len(items) > 0 {
		return nil, false, nil
	}
	for _, category := range Defaults() {
		if category.ID == id {
			return &category, true, nil
		}
	}
	return nil, false, nil
}

// seedDefaults stores the built-in set before the first write to an empty
// global collection. Otherwise that write would replace the defaults
// GetCategories was serving and orphan tasks referencing them.
func (s *Service) seedDefaults(ctx context.Context) error {
	if s.scope != identity.ScopeGlobal {
		return nil
	}
	items, err := s.repo.ListCategories(ctx)
	if err != nil {
		s.log.InternalError("categories.seed: list categories failed", err)
		return err
	}
	if len(items) > 0 {
		return nil
	}
	for _, category := range Defaults() {
		if err := s.repo.CreateCategory(ctx, &category); err != nil {
			s.log.InternalError("categories.seed: store default failed", err, "category_id", category.ID)
			return err
		}
	}
	s.log.Info("categories.seed: stored default categories", "count", len(Defaults()))
	return nil
}

func isDefaultID(id string) bool {
	for _, category := range Defaults() {
		if category.ID == id {
			return true
		}
	}
	return false
}

func (s *Service) visible(category Category, userID string) bool {
	if s.scope == identity.ScopeGlobal {
		return true
	}
	return category.Shared() || *category.OwnerID == userID
}

func (s *Service) checkWritable(category Category, userID string) error {
	if s.scope == identity.ScopeGlobal {
		return nil
	}
	if category.Shared() {
		return ErrCategoryReadOnly
	}
	if *category.OwnerID != userID {
		return ErrCategoryNotFound
	}
	return nil
}
