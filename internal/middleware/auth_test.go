package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/petshop/storefront/internal/domain"
	"github.com/petshop/storefront/internal/token"
)

const testCookie = "session"

func issueCookie(t *testing.T, svc token.Service, user *domain.User) *http.Cookie {
	t.Helper()
	signed, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return &http.Cookie{Name: testCookie, Value: signed}
}

func TestAuth(t *testing.T) {
	svc := token.NewService("test-secret", "storefront", time.Hour)
	expiredSvc := token.NewService("test-secret", "storefront", -time.Minute)
	user := &domain.User{ID: 1, Name: "admin", Role: domain.UserRoleAdmin}

	var gotUser *domain.User
	handler := Auth(svc, testCookie, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		cookie     *http.Cookie
		wantStatus int
		wantUser   bool
	}{
		{name: "valid cookie", cookie: issueCookie(t, svc, user), wantStatus: http.StatusOK, wantUser: true},
		{name: "no cookie", cookie: nil, wantStatus: http.StatusUnauthorized},
		{name: "empty cookie", cookie: &http.Cookie{Name: testCookie, Value: ""}, wantStatus: http.StatusUnauthorized},
		{name: "garbage cookie", cookie: &http.Cookie{Name: testCookie, Value: "junk"}, wantStatus: http.StatusUnauthorized},
		{name: "expired token", cookie: issueCookie(t, expiredSvc, user), wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = nil
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantUser && (gotUser == nil || gotUser.ID != user.ID) {
				t.Errorf("context user = %+v, want %+v", gotUser, user)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	svc := token.NewService("test-secret", "storefront", time.Hour)
	user := &domain.User{ID: 2, Name: "loja", Role: domain.UserRoleShop}

	var gotUser *domain.User
	handler := OptionalAuth(svc, testCookie)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name     string
		cookie   *http.Cookie
		wantUser bool
	}{
		{name: "valid cookie injects user", cookie: issueCookie(t, svc, user), wantUser: true},
		{name: "no cookie passes anonymously", cookie: nil},
		{name: "invalid cookie passes anonymously", cookie: &http.Cookie{Name: testCookie, Value: "junk"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser = nil
			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
			if tt.wantUser != (gotUser != nil) {
				t.Errorf("context user = %+v, wantUser %v", gotUser, tt.wantUser)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	svc := token.NewService("test-secret", "storefront", time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	chain := func(user *domain.User) http.Handler {
		h := RequireAdmin(zap.NewNop())(next)
		if user == nil {
			return h
		}
		return Auth(svc, testCookie, zap.NewNop())(h)
	}

	tests := []struct {
		name       string
		user       *domain.User
		wantStatus int
	}{
		{name: "admin passes", user: &domain.User{ID: 1, Name: "admin", Role: domain.UserRoleAdmin}, wantStatus: http.StatusOK},
		{name: "consumer forbidden", user: &domain.User{ID: 2, Name: "user", Role: domain.UserRoleConsumer}, wantStatus: http.StatusForbidden},
		{name: "missing user unauthorized", user: nil, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin", nil)
			if tt.user != nil {
				req.AddCookie(issueCookie(t, svc, tt.user))
			}
			rec := httptest.NewRecorder()
			chain(tt.user).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
