package family

import "errors"

var (
	ErrFamilyNotFound        = errors.New("family not found")
	ErrFamilyCodeNotFound    = errors.New("family code not found")
	ErrFamilyNameRequired    = errors.New("family name is required")
	ErrAlreadyInFamily       = errors.New("already in family")
	ErrMemberNotFound        = errors.New("member not found")
	ErrMemberNameRequired    = errors.New("member name is required")
	ErrInvalidRole           = errors.New("invalid role")
	ErrNoFieldsToUpdate      = errors.New("no fields to update")
	ErrCodeRequired          = errors.New("invite code is required")
	ErrCodeGenerationFailed  = errors.New("family code generation failed")
	ErrInviteNotFound        = errors.New("invite not found")
	ErrInviteEmailRequired   = errors.New("invite email is required")
	ErrInvalidInviteStatus   = errors.New("invalid invite status")
	ErrInviteAlreadyResolved = errors.New("invite already resolved")
)
