package family

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListFamilies(ctx context.Context) ([]Family, error)
	GetFamilyByID(ctx context.Context, id string) (*Family, error)
	GetFamilyByCode(ctx context.Context, code string) (*Family, error)
	IsCodeTaken(ctx context.Context, code string) (bool, error)
	CreateFamily(ctx context.Context, family *Family) error

	// ListMembers returns every member when familyID is nil.
	ListMembers(ctx context.Context, familyID *string) ([]FamilyMember, error)
	GetMemberByID(ctx context.Context, id string) (*FamilyMember, error)
	GetMember(ctx context.Context, familyID, userID string) (*FamilyMember, error)
	// HasMemberWithRole reports whether any member record matches all three.
	HasMemberWithRole(ctx context.Context, familyID, userID, role string) (bool, error)
	AddMember(ctx context.Context, member *FamilyMember) error
	UpdateMember(ctx context.Context, member *FamilyMember) error
	DeleteMember(ctx context.Context, id string) error

	// ListInvites returns every invite when email is nil.
	ListInvites(ctx context.Context, email *string) ([]FamilyInvite, error)
	GetInviteByID(ctx context.Context, id string) (*FamilyInvite, error)
	CreateInvite(ctx context.Context, invite *FamilyInvite) error
	UpdateInvite(ctx context.Context, invite *FamilyInvite) error
}
