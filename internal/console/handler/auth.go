package handler

import (
	"net/http"

	"github.com/intellidoc/console-gateway/internal/console/service"
	"github.com/intellidoc/console-gateway/internal/session"
	"github.com/intellidoc/console-gateway/pkg/config"
	"github.com/intellidoc/console-gateway/pkg/errors"
	"github.com/intellidoc/console-gateway/pkg/httputil"
	"github.com/intellidoc/console-gateway/pkg/logger"
)

// AuthHandler handles login, registration and the account-recovery flows.
// On login it sets the session cookie the browser sends back on every
// subsequent request.
type AuthHandler struct {
	service *service.ConsoleService
	cookies *config.SessionConfig
	logger  *logger.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(svc *service.ConsoleService, cookies *config.SessionConfig, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		cookies: cookies,
		logger:  log,
	}
}

// Login authenticates and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.CookieName,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(h.cookies.CookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	httputil.JSON(w, http.StatusOK, result)
}

// Logout clears the session cookie. There is no server-side session to
// revoke; the backend token simply stops being sent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookies.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookies.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	httputil.NoContent(w)
}

// Register creates a new account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.Register(r.Context(), req); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, map[string]string{
		"message": "account created, check your email for a confirmation link",
	})
}

// ConfirmEmail consumes an email confirmation token.
func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId" validate:"required"`
		Token  string `json:"token" validate:"required"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.ConfirmEmail(r.Context(), req.UserID, req.Token); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "email confirmed"})
}

// ForgotPassword requests a reset link.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "reset link sent if the account exists"})
}

// ResetPassword consumes a reset token.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email" validate:"required,email"`
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,min=6"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Email, req.Token, req.NewPassword); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// Me returns the profile decoded from the caller's token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok || sess.Profile == nil {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}

	httputil.JSON(w, http.StatusOK, sess.Profile)
}
