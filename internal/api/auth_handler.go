package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/petshop/storefront/internal/domain"
	"github.com/petshop/storefront/internal/middleware"
	"github.com/petshop/storefront/internal/token"
)

// AuthHandler implements the session endpoints. The wire format is the
// storefront contract, not the envelope: success bodies are {"user": ...}
// and failures {"error": ...}, because the browser client decodes exactly
// those shapes.
type AuthHandler struct {
	users      UserDirectory
	tokens     token.Service
	cookieName string
	sessionTTL time.Duration
	secure     bool
	logger     *zap.Logger
}

// NewAuthHandler creates the session endpoint handler. secure marks the
// session cookie Secure (set in prod).
func NewAuthHandler(users UserDirectory, tokens token.Service, cookieName string, sessionTTL time.Duration, secure bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:      users,
		tokens:     tokens,
		cookieName: cookieName,
		sessionTTL: sessionTTL,
		secure:     secure,
		logger:     logger,
	}
}

// Login handles POST /api/login: checks credentials, issues the session
// token and sets the HTTP-only cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	reqID := middleware.RequestIDFromContext(r.Context())

	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.Authenticate(req.Name, req.Password)
	if err != nil {
		h.logger.Warn("login rejected", zap.String("request_id", reqID), zap.String("name", req.Name))
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	signed, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error("issue session token failed", zap.String("request_id", reqID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secure,
	})

	h.logger.Info("login succeeded",
		zap.String("request_id", reqID),
		zap.Int64("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)
	writeJSON(w, http.StatusOK, domain.LoginResponse{User: user})
}

// Logout handles POST /api/logout: clears the session cookie and returns
// 204 whatever the session state was.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/me: returns the user behind a valid session cookie,
// 401 otherwise.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.cookieName)
	if err != nil || cookie.Value == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	claims, err := h.tokens.Verify(cookie.Value)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	user := &domain.User{ID: claims.UserID, Name: claims.Name, Role: claims.Role}
	writeJSON(w, http.StatusOK, domain.LoginResponse{User: user})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
