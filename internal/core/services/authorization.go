package services

import (
	"fmt"

	"checkin-bot/internal/core/domain"
)

// RoleLookup answers the role of a principal
type RoleLookup interface {
	Lookup(id int64) domain.Role
}

// Gate answers tier-membership questions over the directory cache
type Gate struct {
	roles RoleLookup
}

// NewGate creates a gate over roles
func NewGate(roles RoleLookup) *Gate {
	return &Gate{roles: roles}
}

// Role returns the current role of id
func (g *Gate) Role(id int64) domain.Role {
	return g.roles.Lookup(id)
}

// IsOwner reports whether id is the configured owner
func (g *Gate) IsOwner(id int64) bool {
	return g.roles.Lookup(id) == domain.RoleOwner
}

// IsAdmin reports whether id is owner or admin
func (g *Gate) IsAdmin(id int64) bool {
	return g.roles.Lookup(id).AtLeast(domain.RoleAdmin)
}

// IsAuthorized reports whether id may check in
func (g *Gate) IsAuthorized(id int64) bool {
	return g.roles.Lookup(id).AtLeast(domain.RoleAuthorizedUser)
}

// Require returns ErrAuthorizationDenied when id is below min
func (g *Gate) Require(id int64, min domain.Role) error {
	if role := g.roles.Lookup(id); !role.AtLeast(min) {
		return fmt.Errorf("%w: principal %d is %s, needs %s", domain.ErrAuthorizationDenied, id, role, min)
	}
	return nil
}
