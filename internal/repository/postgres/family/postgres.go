package family

import (
	"context"
	"errors"

	familydomain "family-chores-go/internal/domain/family"
	"family-chores-go/internal/store"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Transaction runs fn in one database transaction, so a family and its
// creator membership are stored together or not at all.
func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	var fnErr error
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(&PostgresRepository{db: tx})
		return fnErr
	})
	if err != nil && fnErr == nil {
		return store.Unavailable(err)
	}
	return err
}

func (r *PostgresRepository) ListFamilies(ctx context.Context) ([]familydomain.Family, error) {
	var families []familydomain.Family
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&families).Error; err != nil {
		return nil, store.Unavailable(err)
	}
	return families, nil
}

func (r *PostgresRepository) GetFamilyByID(ctx context.Context, id string) (*familydomain.Family, error) {
	var family familydomain.Family
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrFamilyNotFound
		}
		return nil, store.Unavailable(err)
	}
	return &family, nil
}

func (r *PostgresRepository) GetFamilyByCode(ctx context.Context, code string) (*familydomain.Family, error) {
	var family familydomain.Family
	if err := r.db.WithContext(ctx).Where("invite_code = ?", code).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrFamilyCodeNotFound
		}
		return nil, store.Unavailable(err)
	}
	return &family, nil
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&familydomain.Family{}).Where("invite_code = ?", code).Count(&count).Error; err != nil {
		return false, store.Unavailable(err)
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateFamily(ctx context.Context, family *familydomain.Family) error {
	return store.Unavailable(r.db.WithContext(ctx).Create(family).Error)
}

func (r *PostgresRepository) ListMembers(ctx context.Context, familyID *string) ([]familydomain.FamilyMember, error) {
	query := r.db.WithContext(ctx).Model(&familydomain.FamilyMember{})
	if familyID != nil {
		query = query.Where("family_id = ?", *familyID)
	}

	var members []familydomain.FamilyMember
	if err := query.Order("joined_at asc").Find(&members).Error; err != nil {
		return nil, store.Unavailable(err)
	}
	return members, nil
}

func (r *PostgresRepository) GetMemberByID(ctx context.Context, id string) (*familydomain.FamilyMember, error) {
	var member familydomain.FamilyMember
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrMemberNotFound
		}
		return nil, store.Unavailable(err)
	}
	return &member, nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, familyID, userID string) (*familydomain.FamilyMember, error) {
	var member familydomain.FamilyMember
	if err := r.db.WithContext(ctx).Where("family_id = ? AND user_id = ?", familyID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrMemberNotFound
		}
		return nil, store.Unavailable(err)
	}
	return &member, nil
}

func (r *PostgresRepository) HasMemberWithRole(ctx context.Context, familyID, userID, role string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&familydomain.FamilyMember{}).
		Where("family_id = ? AND user_id = ? AND role = ?", familyID, userID, role).
		Count(&count).Error
	if err != nil {
		return false, store.Unavailable(err)
	}
	return count > 0, nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *familydomain.FamilyMember) error {
	return store.Unavailable(r.db.WithContext(ctx).Create(member).Error)
}

func (r *PostgresRepository) UpdateMember(ctx context.Context, member *familydomain.FamilyMember) error {
	result := r.db.WithContext(ctx).
		Model(&familydomain.FamilyMember{}).
		Where("id = ?", member.ID).
		Updates(map[string]interface{}{
			"name": member.Name,
			"role": member.Role,
		})
	if result.Error != nil {
		return store.Unavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return familydomain.ErrMemberNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, id string) error {
	return store.Unavailable(r.db.WithContext(ctx).Delete(&familydomain.FamilyMember{}, "id = ?", id).Error)
}

func (r *PostgresRepository) ListInvites(ctx context.Context, email *string) ([]familydomain.FamilyInvite, error) {
	query := r.db.WithContext(ctx).Model(&familydomain.FamilyInvite{})
	if email != nil {
		query = query.Where("email = ?", *email)
	}

	var invites []familydomain.FamilyInvite
	if err := query.Order("created_at asc").Find(&invites).Error; err != nil {
		return nil, store.Unavailable(err)
	}
	return invites, nil
}

func (r *PostgresRepository) GetInviteByID(ctx context.Context, id string) (*familydomain.FamilyInvite, error) {
	var invite familydomain.FamilyInvite
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrInviteNotFound
		}
		return nil, store.Unavailable(err)
	}
	return &invite, nil
}

func (r *PostgresRepository) CreateInvite(ctx context.Context, invite *familydomain.FamilyInvite) error {
	return store.Unavailable(r.db.WithContext(ctx).Create(invite).Error)
}

func (r *PostgresRepository) UpdateInvite(ctx context.Context, invite *familydomain.FamilyInvite) error {
	result := r.db.WithContext(ctx).
		Model(&familydomain.FamilyInvite{}).
		Where("id = ?", invite.ID).
		Update("status", invite.Status)
	if result.Error != nil {
		return store.Unavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return familydomain.ErrInviteNotFound
	}
	return nil
}
