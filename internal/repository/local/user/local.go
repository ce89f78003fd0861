package user

import (
	"context"

	domain "family-chores-go/internal/domain/user"
	"family-chores-go/internal/repository/local/collection"
	"family-chores-go/internal/store"
)

type LocalRepository struct {
	profiles *collection.Collection[domain.Profile]
}

func NewLocal(s store.Store) *LocalRepository {
	return &LocalRepository{
		profiles: collection.New[domain.Profile](s, store.CollectionUserProfiles),
	}
}

func (r *LocalRepository) UpsertProfile(ctx context.Context, profile *domain.Profile) error {
	return r.profiles.Mutate(ctx, func(items []domain.Profile) ([]domain.Profile, error) {
		for i := range items {
			if items[i].UserID != profile.UserID {
				continue
			}
			if profile.Email != nil {
				items[i].Email = profile.Email
			}
			if profile.Name != nil {
				items[i].Name = profile.Name
			}
			if profile.AvatarURL != nil {
				items[i].AvatarURL = profile.AvatarURL
			}
			items[i].UpdatedAt = profile.UpdatedAt
			return items, nil
		}
		return append(items, *profile), nil
	})
}

func (r *LocalRepository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, ok, err := r.profiles.Find(ctx, func(p domain.Profile) bool { return p.UserID == userID })
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return profile, nil
}
