// Package domain defines business models independent of transport and
// storage concerns.
package domain

import "time"

// UserRole defines the pricing/permission class of a user.
type UserRole string

const (
	UserRoleConsumer    UserRole = "consumer"
	UserRoleShop        UserRole = "shop"
	UserRoleDistributor UserRole = "distributor"
	UserRoleAdmin       UserRole = "admin"
)

// Valid reports whether the role is one of the known classes.
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleConsumer, UserRoleShop, UserRoleDistributor, UserRoleAdmin:
		return true
	}
	return false
}

// User is the externally-issued identity consumed by the storefront.
type User struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	Role UserRole `json:"role"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// Session is the locally held user plus its expiry instant.
type Session struct {
	User    *User     `json:"user"`
	Expires time.Time `json:"expires"`
}

// Expired reports whether the session has passed its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.Expires)
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /api/login and GET /api/me.
type LoginResponse struct {
	User *User `json:"user"`
}
