package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/intellidoc/console-gateway/pkg/errors"
)

// AuthResponse is the backend's answer to a successful login.
type AuthResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
}

// Login authenticates against the backend. The credentials travel as query
// parameters, not a JSON body - a backend quirk that must be preserved.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	query := url.Values{
		"Email":    []string{email},
		"Password": []string{password},
	}

	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/login", query, nil, &out, "login"); err != nil {
		return nil, mapLoginError(err)
	}

	return &out, nil
}

// mapLoginError refines a generic 401 into either "confirm your email" or
// "invalid credentials" by inspecting the backend's message for the word
// "confirm". Other errors pass through unchanged.
func mapLoginError(err error) error {
	var appErr *errors.AppError
	if !errors.As(err, &appErr) || appErr.StatusCode != http.StatusUnauthorized {
		return err
	}

	if strings.Contains(strings.ToLower(appErr.Message), "confirm") {
		return errors.UnconfirmedEmail()
	}
	return errors.InvalidCredentials()
}

// Register creates an account. Like login, the fields are query parameters.
func (c *Client) Register(ctx context.Context, email, password, fullName, department string) error {
	query := url.Values{
		"Email":      []string{email},
		"Password":   []string{password},
		"FullName":   []string{fullName},
		"Department": []string{department},
	}

	return c.doJSON(ctx, http.MethodPost, "/register", query, nil, nil, "register")
}

// ConfirmEmail consumes an email confirmation token.
func (c *Client) ConfirmEmail(ctx context.Context, userID, token string) error {
	body := map[string]string{
		"userId": userID,
		"token":  token,
	}
	return c.doJSON(ctx, http.MethodPost, "/confirm-email", nil, body, nil, "confirm-email")
}

// ForgotPassword requests a password reset link for the given address.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/forgot-password", nil, body, nil, "forgot-password")
}

// ResetPassword consumes a reset token and sets a new password.
func (c *Client) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	body := map[string]string{
		"email":       email,
		"token":       token,
		"newPassword": newPassword,
	}
	return c.doJSON(ctx, http.MethodPost, "/reset-password", nil, body, nil, "reset-password")
}
