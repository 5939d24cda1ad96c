// Package token issues and verifies the signed session tokens carried by
// the HTTP-only session cookie.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/petshop/storefront/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the session token payload.
type Claims struct {
	UserID int64           `json:"id"`
	Name   string          `json:"name"`
	Role   domain.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and verifies session tokens.
type Service interface {
	Issue(user *domain.User) (string, error)
	Verify(tokenString string) (*Claims, error)
}

type service struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewService creates a token service signing HS256 tokens valid for ttl.
func NewService(secret, issuer string, ttl time.Duration) Service {
	return &service{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Issue signs a session token for the user.
func (s *service) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token.
func (s *service) Verify(tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != s.issuer {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
