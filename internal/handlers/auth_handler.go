package handlers

import (
	"errors"
	"net/http"
	"strings"

	"resala-backend/internal/auth"
	"resala-backend/internal/flash"
	"resala-backend/internal/logging"
	"resala-backend/internal/middleware"
	"resala-backend/internal/models"
)

// LoginObserver is notified of every login attempt; result is success, failure or limited
type LoginObserver interface {
	LoginAttempt(result string)
}

// SessionCookie describes the session cookie written on login
type SessionCookie struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	renderer   *Renderer
	verifier   auth.Verifier
	jwtManager *auth.JWTManager
	limiter    *middleware.RateLimiter
	observer   LoginObserver
	cookie     SessionCookie
}

func NewAuthHandler(
	renderer *Renderer,
	verifier auth.Verifier,
	jwtManager *auth.JWTManager,
	limiter *middleware.RateLimiter,
	observer LoginObserver,
	cookie SessionCookie,
) *AuthHandler {
	return &AuthHandler{
		renderer:   renderer,
		verifier:   verifier,
		jwtManager: jwtManager,
		limiter:    limiter,
		observer:   observer,
		cookie:     cookie,
	}
}

type loginPage struct {
	Page
	Username string
}

// LoginPage shows the login form, or sends a signed-in user home
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserFromContext(r.Context()); ok {
		http.Redirect(w, r, "/home", http.StatusSeeOther)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, pageLogin, &loginPage{Page: Page{Title: "تسجيل الدخول"}})
}

// Login verifies the submitted credentials and starts a session
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := strings.ToLower(strings.TrimSpace(r.FormValue("username")))
	password := r.FormValue("password")
	data := &loginPage{Page: Page{Title: "تسجيل الدخول"}, Username: username}
	logger := logging.NewComponentLogger("auth").With().Str(logging.USER, username).Logger()

	if !h.limiter.AllowRequest(r) {
		h.observe("limited")
		logger.Warn().Msg("Login rate limited")
		flash.Add(w, r, flash.Danger, msgLoginLimited)
		h.renderer.Render(w, r, http.StatusTooManyRequests, pageLogin, data)
		return
	}

	role, err := h.verifier.Verify(username, password)
	if err != nil {
		h.observe("failure")
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			logger.Error().Err(err).Msg("Credential check failed")
		} else {
			logger.Info().Msg("Invalid login")
		}
		flash.Add(w, r, flash.Danger, msgLoginFailed)
		h.renderer.Render(w, r, http.StatusOK, pageLogin, data)
		return
	}

	token, err := h.jwtManager.Generate(models.SessionUser{Username: username, IsAdmin: role == models.RoleAdmin})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to sign session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.observe("success")
	logger.Info().Str("role", string(role)).Msg("User logged in")

	// session cookie: no Max-Age, cleared when the browser closes
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	flash.Add(w, r, flash.Success, msgLoginSuccess)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// Logout clears the session and returns to the login page
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		logger := logging.NewComponentLogger("auth")
		logger.Info().Str(logging.USER, user.Username).Msg("User logged out")
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	flash.Add(w, r, flash.Success, msgLogout)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) observe(result string) {
	if h.observer != nil {
		h.observer.LoginAttempt(result)
	}
}
