// Package user holds the identity the auth collaborator hands to the order
// subsystem. Registration and credential storage are not part of this service.
package user

import (
	"context"
)

// Role 身份角色
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Identity an authenticated caller
type Identity struct {
	ID       string
	Username string
	Role     Role
}

// IdentityID satisfies order.Requester
func (i Identity) IdentityID() string { return i.ID }

// DisplayName the username, or the id when the token carried none
func (i Identity) DisplayName() string {
	if i.Username != "" {
		return i.Username
	}
	return i.ID
}

// IsAdmin administrators see every order and may change status
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// ParseRole unknown roles degrade to customer
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleCustomer
}

// Authenticator resolves a bearer credential to an identity.
// Any rejected credential yields an error wrapping shared.ErrUnauthorized.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (Identity, error)
}
