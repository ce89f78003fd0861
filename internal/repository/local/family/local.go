package family

import (
	"context"

	familydomain "family-chores-go/internal/domain/family"
	"family-chores-go/internal/repository/local/collection"
	"family-chores-go/internal/store"
)

// LocalRepository keeps families, members and invites in three separate
// record store collections. There is no cross-collection rollback: a failure
// after the first write of a multi-write operation leaves that write in place.
type LocalRepository struct {
	families *collection.Collection[familydomain.Family]
	members  *collection.Collection[familydomain.FamilyMember]
	invites  *collection.Collection[familydomain.FamilyInvite]
}

func NewLocal(s store.Store) *LocalRepository {
	return &LocalRepository{
		families: collection.New[familydomain.Family](s, store.CollectionFamilies),
		members:  collection.New[familydomain.FamilyMember](s, store.CollectionFamilyMembers),
		invites:  collection.New[familydomain.FamilyInvite](s, store.CollectionFamilyInvites),
	}
}

// Transaction runs fn against the repository itself. Writes made by fn are
// applied one by one as fn performs them.
func (r *LocalRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	return fn(r)
}

func (r *LocalRepository) ListFamilies(ctx context.Context) ([]familydomain.Family, error) {
	return r.families.All(ctx)
}

func (r *LocalRepository) GetFamilyByID(ctx context.Context, id string) (*familydomain.Family, error) {
	family, ok, err := r.families.Find(ctx, func(f familydomain.Family) bool { return f.ID == id })
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, familydomain.ErrFamilyNotFound
	}
	return family, nil
}

func (r *LocalRepository) GetFamilyByCode(ctx context.Context, code string) (*familydomain.Family, error) {
	family, ok, err := r.families.Find(ctx, func(f familydomain.Family) bool { return f.InviteCode == code })
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, familydomain.ErrFamilyCodeNotFound
	}
	return family, nil
}

func (r *LocalRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	_, ok, err := r.families.Find(ctx, func(f familydomain.Family) bool { return f.InviteCode == code })
	return ok, err
}

func (r *LocalRepository) CreateFamily(ctx context.Context, family *familydomain.Family) error {
	return r.families.Append(ctx, *family)
}

func (r *LocalRepository) ListMembers(ctx context.Context, familyID *string) ([]familydomain.FamilyMember, error) {
	members, err := r.members.All(ctx)
	if err != nil || familyID == nil {
		return members, err
	}

	filtered := make([]familydomain.FamilyMember, 0, len(members))
	for _, member := range members {
		if member.InFamily(*familyID) {
			filtered = append(filtered, member)
		}
	}
	return filtered, nil
}

func (r *LocalRepository) GetMemberByID(ctx context.Context, id string) (*familydomain.FamilyMember, error) {
	member, ok, err := r.members.Find(ctx, memberByID(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, familydomain.ErrMemberNotFound
	}
	return member, nil
}

func (r *LocalRepository) GetMember(ctx context.Context, familyID, userID string) (*familydomain.FamilyMember, error) {
	member, ok, err := r.members.Find(ctx, func(m familydomain.FamilyMember) bool {
		return m.UserID == userID && m.InFamily(familyID)
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, familydomain.ErrMemberNotFound
	}
	return member, nil
}

func (r *LocalRepository) HasMemberWithRole(ctx context.Context, familyID, userID, role string) (bool, error) {
	_, ok, err := r.members.Find(ctx, func(m familydomain.FamilyMember) bool {
		return m.UserID == userID && m.Role == role && m.InFamily(familyID)
	})
	return ok, err
}

func (r *LocalRepository) AddMember(ctx context.Context, member *familydomain.FamilyMember) error {
	return r.members.Append(ctx, *member)
}

func (r *LocalRepository) UpdateMember(ctx context.Context, member *familydomain.FamilyMember) error {
	ok, err := r.members.Replace(ctx, memberByID(member.ID), *member)
	if err != nil {
		return err
	}
	if !ok {
		return familydomain.ErrMemberNotFound
	}
	return nil
}

func (r *LocalRepository) DeleteMember(ctx context.Context, id string) error {
	_, err := r.members.Remove(ctx, memberByID(id))
	return err
}

func (r *LocalRepository) ListInvites(ctx context.Context, email *string) ([]familydomain.FamilyInvite, error) {
	invites, err := r.invites.All(ctx)
	if err != nil || email == nil {
		return invites, err
	}

	filtered := make([]familydomain.FamilyInvite, 0, len(invites))
	for _, invite := range invites {
		if invite.Email == *email {
			filtered = append(filtered, invite)
		}
	}
	return filtered, nil
}

func (r *LocalRepository) GetInviteByID(ctx context.Context, id string) (*familydomain.FamilyInvite, error) {
	invite, ok, err := r.invites.Find(ctx, inviteByID(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, familydomain.ErrInviteNotFound
	}
	return invite, nil
}

func (r *LocalRepository) CreateInvite(ctx context.Context, invite *familydomain.FamilyInvite) error {
	return r.invites.Append(ctx, *invite)
}

func (r *LocalRepository) UpdateInvite(ctx context.Context, invite *familydomain.FamilyInvite) error {
	ok, err := r.invites.Replace(ctx, inviteByID(invite.ID), *invite)
	if err != nil {
		return err
	}
	if !ok {
		return familydomain.ErrInviteNotFound
	}
	return nil
}

func memberByID(id string) func(familydomain.FamilyMember) bool {
	return func(m familydomain.FamilyMember) bool { return m.ID == id }
}

func inviteByID(id string) func(familydomain.FamilyInvite) bool {
	return func(i familydomain.FamilyInvite) bool { return i.ID == id }
}
