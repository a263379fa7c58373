package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"resala-backend/internal/auth"
	"resala-backend/internal/flash"
	"resala-backend/internal/models"
)

type contextKey string

const userContextKey contextKey = "session_user"

// Messages shown when a guard redirects
const (
	msgLoginRequired = "يجب تسجيل الدخول أولاً."
	msgAdminRequired = "يجب أن تكون مسؤولًا للوصول إلى لوحة التحكم."
)

// AuthMiddleware reads the signed session cookie and guards routes
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	cookieName string
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager, cookieName: cookieName}
}

// Authenticate attaches the session user to the context when the cookie is valid.
// It never rejects a request; guards below do.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cookieName)
		if err == nil && cookie.Value != "" {
			if user, err := m.jwtManager.Verify(cookie.Value); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireLogin redirects to the login page when no user is in session
func (m *AuthMiddleware) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUserFromContext(r.Context()); !ok {
			flash.Add(w, r, flash.Danger, msgLoginRequired)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin redirects non-admins to the home page
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if role, _ := GetRoleFromContext(r.Context()); role != models.RoleAdmin {
			flash.Add(w, r, flash.Danger, msgAdminRequired)
			http.Redirect(w, r, "/home", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// RequireAPIUser answers 401/403 in JSON instead of redirecting
func (m *AuthMiddleware) RequireAPIUser(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUserFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if adminOnly && !user.IsAdmin {
				writeJSONError(w, http.StatusForbidden, "admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext returns the session user set by Authenticate
func GetUserFromContext(ctx context.Context) (*models.SessionUser, bool) {
	user, ok := ctx.Value(userContextKey).(*models.SessionUser)
	return user, ok && user != nil && user.Username != ""
}

// GetRoleFromContext returns the role of the session user
func GetRoleFromContext(ctx context.Context) (models.Role, bool) {
	user, ok := GetUserFromContext(ctx)
	if !ok {
		return "", false
	}
	if user.IsAdmin {
		return models.RoleAdmin, true
	}
	return models.RoleUser, true
}

// WithUser returns a context carrying user; used by tests and internal callers
func WithUser(ctx context.Context, user *models.SessionUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
