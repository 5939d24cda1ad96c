// Package session consumes the externally-issued user session: login,
// silent hydration, logout, and read-time expiry guarding, plus the role
// predicates the catalog views and route guards rely on.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/petshop/storefront/internal/domain"
	"github.com/petshop/storefront/internal/storage"
)

// sessionKey is the storage key owned by the session consumer.
const sessionKey = "auth"

// sessionTTL is how long a fresh login stays valid locally. The server
// cookie carries its own expiry; this is the client-side guard.
const sessionTTL = 24 * time.Hour

// AuthError reports bad credentials or a rejected session.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// Consumer talks to the session endpoints and holds the current user. The
// session cookie is carried by the consumer's own cookie jar; callers only
// see the user value and its expiry.
type Consumer struct {
	baseURL string
	client  *http.Client
	store   storage.Store
	logger  *zap.Logger
	now     func() time.Time

	mu      sync.Mutex
	user    *domain.User
	expires time.Time
}

// NewConsumer creates a session consumer against baseURL and hydrates any
// persisted, unexpired session from the store.
func NewConsumer(baseURL string, store storage.Store, logger *zap.Logger) (*Consumer, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Consumer{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Jar: jar, Timeout: 15 * time.Second},
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
	c.hydrate()
	return c, nil
}

// hydrate restores a persisted session; expired or corrupted entries are
// removed rather than surfaced.
func (c *Consumer) hydrate() {
	ctx := context.Background()
	var sess domain.Session
	err := c.store.Get(ctx, sessionKey, &sess)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			_ = c.store.Remove(ctx, sessionKey)
		}
		return
	}
	if sess.User == nil || sess.Expired(c.now()) {
		_ = c.store.Remove(ctx, sessionKey)
		return
	}
	c.user = sess.User
	c.expires = sess.Expires
}

// Login authenticates against POST /api/login. On a non-success status the
// server's error message (or a generic fallback) is returned as an
// AuthError. On success the user is stored with a 24h expiry.
func (c *Consumer) Login(ctx context.Context, name, password string) (*domain.User, error) {
	body, err := json.Marshal(domain.LoginRequest{Name: name, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call login endpoint: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		msg := "invalid credentials"
		if json.NewDecoder(res.Body).Decode(&e) == nil && e.Error != "" {
			msg = e.Error
		}
		return nil, &AuthError{Message: msg}
	}

	var login domain.LoginResponse
	if err := json.NewDecoder(res.Body).Decode(&login); err != nil || login.User == nil {
		return nil, &AuthError{Message: "malformed login response"}
	}

	c.setSession(ctx, login.User, c.now().Add(sessionTTL))
	return login.User, nil
}

// Load fetches the current session from GET /api/me. A 401 clears the
// local user; every other failure is logged and swallowed so app boot is
// never blocked by a transient network issue.
func (c *Consumer) Load(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/me", nil)
	if err != nil {
		c.logger.Debug("session hydration skipped", zap.Error(err))
		return
	}

	res, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("session hydration failed", zap.Error(err))
		return
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		var me domain.LoginResponse
		if err := json.NewDecoder(res.Body).Decode(&me); err != nil || me.User == nil {
			c.logger.Debug("malformed session response", zap.Error(err))
			return
		}
		c.setSession(ctx, me.User, c.now().Add(sessionTTL))
	case http.StatusUnauthorized:
		c.clear(ctx)
	default:
		c.logger.Debug("session hydration failed", zap.Int("status", res.StatusCode))
	}
}

// Logout best-effort-notifies POST /api/logout and unconditionally clears
// the local session, whatever the network outcome.
func (c *Consumer) Logout(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/logout", nil)
	if err == nil {
		if res, err := c.client.Do(req); err == nil {
			res.Body.Close()
		} else {
			c.logger.Debug("logout notification failed", zap.Error(err))
		}
	}
	c.clear(ctx)
}

// CheckTokenExpiration is the read-time guard: an expired session is
// cleared and reported as invalid. The check and the clear share one
// critical section so a login landing in between is never wiped.
func (c *Consumer) CheckTokenExpiration() bool {
	c.mu.Lock()
	if c.user == nil {
		c.mu.Unlock()
		return false
	}
	if c.now().Before(c.expires) {
		c.mu.Unlock()
		return true
	}
	c.user = nil
	c.expires = time.Time{}
	c.mu.Unlock()

	if err := c.store.Remove(context.Background(), sessionKey); err != nil {
		c.logger.Warn("failed to clear persisted session", zap.Error(err))
	}
	return false
}

func (c *Consumer) setSession(ctx context.Context, user *domain.User, expires time.Time) {
	c.mu.Lock()
	c.user = user
	c.expires = expires
	c.mu.Unlock()

	sess := domain.Session{User: user, Expires: expires}
	if err := c.store.Set(ctx, sessionKey, &sess); err != nil {
		c.logger.Warn("failed to persist session", zap.Error(err))
	}
}

func (c *Consumer) clear(ctx context.Context) {
	c.mu.Lock()
	c.user = nil
	c.expires = time.Time{}
	c.mu.Unlock()

	if err := c.store.Remove(ctx, sessionKey); err != nil {
		c.logger.Warn("failed to clear persisted session", zap.Error(err))
	}
}

// User returns the current user, or nil.
func (c *Consumer) User() *domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// IsAuthenticated reports whether an unexpired user session is held.
func (c *Consumer) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user != nil && c.now().Before(c.expires)
}

// Role returns the current role; absent a session it is the consumer
// class, which also drives the fallback pricing.
func (c *Consumer) Role() domain.UserRole {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return domain.UserRoleConsumer
	}
	return c.user.Role
}

// HasRole reports whether the current user has exactly the given role.
func (c *Consumer) HasRole(role domain.UserRole) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user != nil && c.user.Role == role
}

func (c *Consumer) IsAdmin() bool       { return c.HasRole(domain.UserRoleAdmin) }
func (c *Consumer) IsShop() bool        { return c.HasRole(domain.UserRoleShop) }
func (c *Consumer) IsDistributor() bool { return c.HasRole(domain.UserRoleDistributor) }
func (c *Consumer) IsConsumer() bool    { return c.HasRole(domain.UserRoleConsumer) }
