package domain

import "errors"

// Role is the access level carried by an operator token.
type Role string

const (
	// RoleAdmin may open, close and settle markets.
	RoleAdmin Role = "admin"

	// RolePlayer may only bet and query.
	RolePlayer Role = "player"
)

var validRoles = map[Role]bool{
	RoleAdmin:  true,
	RolePlayer: true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanManageMarkets reports whether the role may drive market transitions.
func (r Role) CanManageMarkets() bool {
	return r == RoleAdmin
}

// Operator is the authenticated caller of the command surface.
type Operator struct {
	ID   string
	Role Role
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)
