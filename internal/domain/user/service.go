package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) UpsertProfile(ctx context.Context, userID, email, name, avatarURL string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrUserIDRequired
	}

	now := s.now().UTC()
	profile := Profile{UserID: userID, CreatedAt: now, UpdatedAt: now}
	if email != "" {
		profile.Email = &email
	}
	if name != "" {
		profile.Name = &name
	}
	if avatarURL != "" {
		profile.AvatarURL = &avatarURL
	}

	return s.repo.UpsertProfile(ctx, &profile)
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, bool, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return profile, true, nil
}
