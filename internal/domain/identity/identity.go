// Package identity holds what the services need to know about the caller.
package identity

import (
	"errors"
	"strings"
)

var ErrUnauthenticated = errors.New("unauthenticated")

// Scope selects how a service treats the current user. In ScopeGlobal every
// caller sees the whole collection; in ScopeOwner reads and writes are limited
// to records owned by the caller and a caller is required.
type Scope int

const (
	ScopeGlobal Scope = iota
	ScopeOwner
)

func (s Scope) String() string {
	if s == ScopeOwner {
		return "owner"
	}
	return "global"
}

// RequireUser returns the trimmed user id, or ErrUnauthenticated when the
// scope needs one and none was supplied.
func (s Scope) RequireUser(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if s == ScopeOwner && userID == "" {
		return "", ErrUnauthenticated
	}
	return userID, nil
}
