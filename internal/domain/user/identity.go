// Package user resolves admin callers and decides who is privileged.
package user

import (
	"errors"
	"slices"
)

var (
	// ErrUnauthorized means no valid identity token was presented.
	ErrUnauthorized = errors.New("missing or invalid authorization token")

	// ErrForbidden means the identity is valid but not privileged.
	ErrForbidden = errors.New("account is not permitted to perform admin operations")
)

// Identity is the caller resolved from a bearer token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// AccessPolicy decides which identities may use the admin back office.
type AccessPolicy struct {
	Roles   []string
	UserIDs []string
}

// Privileged reports whether the identity holds an admin role or is listed by id.
func (p AccessPolicy) Privileged(id Identity) bool {
	if id.ID == "" {
		return false
	}
	if id.Role != "" && slices.Contains(p.Roles, id.Role) {
		return true
	}
	return slices.Contains(p.UserIDs, id.ID)
}
