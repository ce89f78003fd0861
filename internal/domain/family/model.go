package family

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusRejected = "rejected"
)

type Family struct {
	ID         string    `json:"id" gorm:"type:text;primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	CreatedBy  string    `json:"createdBy" gorm:"not null;index"`
	CreatedAt  time.Time `json:"createdAt"`
	InviteCode string    `json:"inviteCode" gorm:"size:6;not null;uniqueIndex"`
}

func (Family) TableName() string {
	return "families"
}

// FamilyMember is a person who can be assigned tasks. FamilyID is nil for
// members that are not attached to a family yet.
type FamilyMember struct {
	ID       string    `json:"id" gorm:"type:text;primaryKey"`
	Name     string    `json:"name" gorm:"not null"`
	UserID   string    `json:"userId" gorm:"not null;index"`
	FamilyID *string   `json:"familyId,omitempty" gorm:"index"`
	Role     string    `json:"role" gorm:"type:varchar(16);not null"`
	JoinedAt time.Time `json:"joinedAt"`
}

func (FamilyMember) TableName() string {
	return "family_members"
}

func (m FamilyMember) InFamily(familyID string) bool {
	return m.FamilyID != nil && *m.FamilyID == familyID
}

type FamilyInvite struct {
	ID        string    `json:"id" gorm:"type:text;primaryKey"`
	FamilyID  string    `json:"familyId" gorm:"not null;index"`
	Email     string    `json:"email" gorm:"not null;index"`
	Status    string    `json:"status" gorm:"type:varchar(16);not null"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (FamilyInvite) TableName() string {
	return "family_invites"
}

// Expired reports whether the invite is past its expiry. Expiry is
// informational; status updates do not consult it.
func (i FamilyInvite) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}

type AddMemberInput struct {
	Name     string
	UserID   string
	FamilyID *string
	Role     string
}

type UpdateMemberInput struct {
	Name *string
	Role *string
}

func (in UpdateMemberInput) Empty() bool {
	return in.Name == nil && in.Role == nil
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}
