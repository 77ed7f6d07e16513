package model

import "strings"

const RoleAdmin = "admin"

// User is one entry of the flat JSON user list.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// EffectiveRole reports the role granted at login; entries without a role
// are treated as administrators.
func (u *User) EffectiveRole() string {
	if u.Role == "" {
		return RoleAdmin
	}
	return u.Role
}

// HasPasswordHash reports whether Password holds a bcrypt hash rather than
// clear text.
func (u *User) HasPasswordHash() bool {
	return strings.HasPrefix(u.Password, "$2a$") ||
		strings.HasPrefix(u.Password, "$2b$") ||
		strings.HasPrefix(u.Password, "$2y$")
}

// Public returns the identity safe to send to clients.
func (u *User) Public() PublicUser {
	return PublicUser{Username: u.Username, Role: u.EffectiveRole()}
}

type PublicUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
