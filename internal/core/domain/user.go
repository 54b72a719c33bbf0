package domain

import (
	"strings"
	"time"
)

// Role is a named authority attached to a user. The set of roles is closed.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole normalises s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleUser:
		return r, true
	}
	return "", false
}

// RoleSet is the set of roles a user holds. Only membership is ever asked of it.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

func (s RoleSet) Add(r Role) {
	s[r] = struct{}{}
}

func (s RoleSet) Remove(r Role) {
	delete(s, r)
}

// Slice returns the roles in a stable order (ADMIN before USER).
func (s RoleSet) Slice() []Role {
	out := make([]Role, 0, len(s))
	for _, r := range []Role{RoleAdmin, RoleUser} {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// User models an authenticated actor in the system.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Roles        RoleSet
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the caller of a command, resolved from the authenticated identity.
type Actor struct {
	ID       int64
	Username string
	Roles    RoleSet
}

func (a Actor) IsAdmin() bool {
	return a.Roles.Has(RoleAdmin)
}

// ActorFromUser projects a stored user onto the actor used by policy checks.
func ActorFromUser(u *User) Actor {
	roles := u.Roles
	if roles == nil {
		roles = NewRoleSet()
	}
	return Actor{ID: u.ID, Username: u.Username, Roles: roles}
}
