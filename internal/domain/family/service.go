package family

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"family-chores-go/internal/domain/identity"
	"family-chores-go/pkg/logger"
	"github.com/google/uuid"
)

const (
	familyCodeLength   = 6
	familyCodeAttempts = 10
	familyCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	DefaultInviteTTL = 7 * 24 * time.Hour
	codeCacheTTL     = 10 * time.Minute
)

type Options struct {
	// InviteTTL is added to the creation time to compute an invite's expiry.
	InviteTTL time.Duration
	// StrictInvites only lets pending invites be resolved. When false a
	// resolved invite can be overwritten with the other status.
	StrictInvites bool
	// Scope gates member listing; in ScopeOwner a caller is required.
	Scope identity.Scope
	Cache Cache
	Now           func() time.Time
}

type Service struct {
	repo   Repository
	cache  Cache
	ttl    time.Duration
	strict bool
	scope  identity.Scope
	now    func() time.Time
	log    logger.Logger
}

func NewService(repo Repository, opts Options, log logger.Logger) *Service {
	if opts.InviteTTL <= 0 {
		opts.InviteTTL = DefaultInviteTTL
	}
	if opts.Cache == nil {
		opts.Cache = noopCache{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		repo:   repo,
		cache:  opts.Cache,
		ttl:    opts.InviteTTL,
		strict: opts.StrictInvites,
		scope:  opts.Scope,
		now:    opts.Now,
		log:    logger.OrNop(log).With("component", "family"),
	}
}

// CreateFamily stores the family and then the creator's admin membership.
// Whether the two writes are atomic depends on the repository.
func (s *Service) CreateFamily(ctx context.Context, name, creatorUserID, creatorName string) (*Family, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrFamilyNameRequired
	}

	var result Family
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		code, err := generateUniqueCode(ctx, tx)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		family := Family{
			ID:         uuid.NewString(),
			Name:       name,
			CreatedBy:  creatorUserID,
			CreatedAt:  now,
			InviteCode: code,
		}
		if err := tx.CreateFamily(ctx, &family); err != nil {
			return err
		}

		familyID := family.ID
		member := FamilyMember{
			ID:       uuid.NewString(),
			Name:     strings.TrimSpace(creatorName),
			UserID:   creatorUserID,
			FamilyID: &familyID,
			Role:     RoleAdmin,
			JoinedAt: now,
		}
		if err := tx.AddMember(ctx, &member); err != nil {
			return err
		}

		result = family
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrCodeGenerationFailed) {
			s.log.InternalError("family.create: create family failed", err, "user_id", creatorUserID)
		}
		return nil, err
	}
	return &result, nil
}

func (s *Service) GetFamilies(ctx context.Context) ([]Family, error) {
	families, err := s.repo.ListFamilies(ctx)
	if err != nil {
		s.log.InternalError("family.list: list families failed", err)
		return nil, err
	}
	return families, nil
}

func (s *Service) GetFamilyByID(ctx context.Context, id string) (*Family, bool, error) {
	family, err := s.repo.GetFamilyByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrFamilyNotFound) {
			return nil, false, nil
		}
		s.log.InternalError("family.get: get family failed", err, "family_id", id)
		return nil, false, err
	}
	return family, true, nil
}

// GetFamilyByInviteCode matches the code exactly, case included.
func (s *Service) GetFamilyByInviteCode(ctx context.Context, code string) (*Family, bool, error) {
	if cached, ok := s.cache.GetByCode(code); ok {
		return cached, true, nil
	}

	family, err := s.repo.GetFamilyByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrFamilyCodeNotFound) {
			return nil, false, nil
		}
		s.log.InternalError("family.get_by_code: get family failed", err)
		return nil, false, err
	}
	s.cache.SetByCode(code, family, codeCacheTTL)
	return family, true, nil
}

// JoinFamily adds the user to the family owning code. Codes typed by hand
// are upper-cased first since every issued code is upper case.
func (s *Service) JoinFamily(ctx context.Context, userID, name, code string) (*Family, *FamilyMember, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, nil, ErrCodeRequired
	}

	family, ok, err := s.GetFamilyByInviteCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrFamilyCodeNotFound
	}

	var member FamilyMember
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		_, err := tx.GetMember(ctx, family.ID, userID)
		if err == nil {
			return ErrAlreadyInFamily
		}
		if !errors.Is(err, ErrMemberNotFound) {
			return err
		}

		familyID := family.ID
		member = FamilyMember{
			ID:       uuid.NewString(),
			Name:     strings.TrimSpace(name),
			UserID:   userID,
			FamilyID: &familyID,
			Role:     RoleMember,
			JoinedAt: s.now().UTC(),
		}
		return tx.AddMember(ctx, &member)
	})
	if err != nil {
		if !errors.Is(err, ErrAlreadyInFamily) {
			s.log.InternalError("family.join: add member failed", err, "family_id", family.ID, "user_id", userID)
		}
		return nil, nil, err
	}
	return family, &member, nil
}

func (s *Service) AddFamilyMember(ctx context.Context, input AddMemberInput) (*FamilyMember, error) {
	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = RoleMember
	}
	if !ValidRole(role) {
		return nil, ErrInvalidRole
	}

	member := FamilyMember{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(input.Name),
		UserID:   strings.TrimSpace(input.UserID),
		FamilyID: input.FamilyID,
		Role:     role,
		JoinedAt: s.now().UTC(),
	}
	if err := s.repo.AddMember(ctx, &member); err != nil {
		s.log.InternalError("family.add_member: add member failed", err, "user_id", member.UserID)
		return nil, err
	}
	return &member, nil
}

func (s *Service) GetFamilyMembers(ctx context.Context, userID string, familyID *string) ([]FamilyMember, error) {
	if _, err := s.scope.RequireUser(userID); err != nil {
		return nil, err
	}

	members, err := s.repo.ListMembers(ctx, familyID)
	if err != nil {
		s.log.InternalError("family.list_members: list members failed", err)
		return nil, err
	}
	return members, nil
}

func (s *Service) GetFamilyMemberByID(ctx context.Context, id string) (*FamilyMember, bool, error) {
	member, err := s.repo.GetMemberByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return nil, false, nil
		}
		s.log.InternalError("family.get_member: get member failed", err, "member_id", id)
		return nil, false, err
	}
	return member, true, nil
}

func (s *Service) UpdateFamilyMember(ctx context.Context, id string, input UpdateMemberInput) (*FamilyMember, error) {
	if input.Empty() {
		return nil, ErrNoFieldsToUpdate
	}

	member, err := s.repo.GetMemberByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrMemberNotFound) {
			s.log.InternalError("family.update_member: get member failed", err, "member_id", id)
		}
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrMemberNameRequired
		}
		member.Name = name
	}
	if input.Role != nil {
		role := strings.TrimSpace(*input.Role)
		if !ValidRole(role) {
			return nil, ErrInvalidRole
		}
		member.Role = role
	}

	if err := s.repo.UpdateMember(ctx, member); err != nil {
		if !errors.Is(err, ErrMemberNotFound) {
			s.log.InternalError("family.update_member: update member failed", err, "member_id", id)
		}
		return nil, err
	}
	return member, nil
}

// RemoveFamilyMember is a no-op for ids that do not exist.
func (s *Service) RemoveFamilyMember(ctx context.Context, id string) error {
	if err := s.repo.DeleteMember(ctx, id); err != nil {
		s.log.InternalError("family.remove_member: delete member failed", err, "member_id", id)
		return err
	}
	return nil
}

func (s *Service) CreateInvite(ctx context.Context, familyID, email string) (*FamilyInvite, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrInviteEmailRequired
	}

	if _, err := s.repo.GetFamilyByID(ctx, familyID); err != nil {
		if !errors.Is(err, ErrFamilyNotFound) {
			s.log.InternalError("family.create_invite: get family failed", err, "family_id", familyID)
		}
		return nil, err
	}

	now := s.now().UTC()
	invite := FamilyInvite{
		ID:        uuid.NewString(),
		FamilyID:  familyID,
		Email:     email,
		Status:    InviteStatusPending,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.CreateInvite(ctx, &invite); err != nil {
		s.log.InternalError("family.create_invite: create invite failed", err, "family_id", familyID)
		return nil, err
	}
	return &invite, nil
}

func (s *Service) GetInvites(ctx context.Context, email *string) ([]FamilyInvite, error) {
	invites, err := s.repo.ListInvites(ctx, email)
	if err != nil {
		s.log.InternalError("family.list_invites: list invites failed", err)
		return nil, err
	}
	return invites, nil
}

func (s *Service) UpdateInviteStatus(ctx context.Context, id, status string) (*FamilyInvite, error) {
	if status != InviteStatusAccepted && status != InviteStatusRejected {
		return nil, ErrInvalidInviteStatus
	}

	invite, err := s.repo.GetInviteByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrInviteNotFound) {
			s.log.InternalError("family.update_invite: get invite failed", err, "invite_id", id)
		}
		return nil, err
	}
	if s.strict && invite.Status != InviteStatusPending {
		return nil, ErrInviteAlreadyResolved
	}
	if invite.Status != InviteStatusPending {
		s.log.Warn("family.update_invite: overwriting resolved invite", "invite_id", id, "from", invite.Status, "to", status)
	}

	invite.Status = status
	if err := s.repo.UpdateInvite(ctx, invite); err != nil {
		if !errors.Is(err, ErrInviteNotFound) {
			s.log.InternalError("family.update_invite: update invite failed", err, "invite_id", id)
		}
		return nil, err
	}
	return invite, nil
}

func (s *Service) IsUserFamilyAdmin(ctx context.Context, userID, familyID string) (bool, error) {
	isAdmin, err := s.repo.HasMemberWithRole(ctx, familyID, userID, RoleAdmin)
	if err != nil {
		s.log.InternalError("family.is_admin: check role failed", err, "family_id", familyID, "user_id", userID)
		return false, err
	}
	return isAdmin, nil
}

func generateUniqueCode(ctx context.Context, repo Repository) (string, error) {
	for i := 0; i < familyCodeAttempts; i++ {
		code, err := generateCode(familyCodeLength)
		if err != nil {
			return "", err
		}
		taken, err := repo.IsCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGenerationFailed
}

func generateCode(length int) (string, error) {
	max := big.NewInt(int64(len(familyCodeAlphabet)))

	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(familyCodeAlphabet[n.Int64()])
	}

	return builder.String(), nil
}
