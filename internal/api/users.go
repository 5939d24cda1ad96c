// Package api implements the storefront HTTP endpoints: session issuance
// (login/logout/me), the parquet bridge, and the catalog listing.
package api

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/petshop/storefront/internal/domain"
)

// ErrBadCredentials is returned when name/password do not match a user.
var ErrBadCredentials = errors.New("invalid credentials")

// UserDirectory authenticates storefront users. There is no user database;
// the directory is seeded at startup.
type UserDirectory interface {
	Authenticate(name, password string) (*domain.User, error)
}

type staticUser struct {
	user domain.User
	hash []byte
}

// StaticDirectory is a fixed, in-memory user set with bcrypt-hashed
// passwords.
type StaticDirectory struct {
	mu    sync.RWMutex
	users map[string]staticUser
}

// NewStaticDirectory creates an empty directory.
func NewStaticDirectory() *StaticDirectory {
	return &StaticDirectory{users: make(map[string]staticUser)}
}

// DefaultDirectory seeds the demo accounts the storefront ships with.
func DefaultDirectory() (*StaticDirectory, error) {
	d := NewStaticDirectory()
	seed := []struct {
		user     domain.User
		password string
	}{
		{domain.User{ID: 1, Name: "admin", Role: domain.UserRoleAdmin}, "admin"},
		{domain.User{ID: 2, Name: "user", Role: domain.UserRoleConsumer}, "user"},
	}
	for _, s := range seed {
		if err := d.Add(s.user, s.password); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Add registers a user under a bcrypt hash of password.
func (d *StaticDirectory) Add(user domain.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.users[user.Name] = staticUser{user: user, hash: hash}
	d.mu.Unlock()
	return nil
}

// Authenticate checks name/password and returns the matching user.
func (d *StaticDirectory) Authenticate(name, password string) (*domain.User, error) {
	d.mu.RLock()
	entry, ok := d.users[name]
	d.mu.RUnlock()
	if !ok {
		// Burn a comparison anyway so missing and wrong-password cases
		// take the same time.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5B4tyQ8o1q0V7XhGQFgdQnRkPZC1q"), []byte(password))
		return nil, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(entry.hash, []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	u := entry.user
	return &u, nil
}
