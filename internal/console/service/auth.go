package service

import (
	"context"

	"github.com/intellidoc/console-gateway/internal/session"
)

// LoginRequest is the console's login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the console's registration payload.
type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	FullName   string `json:"fullName" validate:"required"`
	Department string `json:"department"`
}

// LoginResult couples the backend token with the profile decoded from it.
type LoginResult struct {
	Token   string           `json:"token"`
	Profile *session.Profile `json:"profile"`
}

// Login authenticates against the backend and decodes the returned token
// into a display profile. A token that cannot be decoded still logs in;
// the profile is simply nil.
func (s *ConsoleService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	resp, err := s.backend.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	profile := session.DecodeProfile(resp.Token)
	if profile == nil {
		s.logger.Warn().Str("user_id", resp.UserID).Msg("login token could not be decoded into a profile")
	}

	return &LoginResult{Token: resp.Token, Profile: profile}, nil
}

// Register creates a new account.
func (s *ConsoleService) Register(ctx context.Context, req RegisterRequest) error {
	return s.backend.Register(ctx, req.Email, req.Password, req.FullName, req.Department)
}

// ConfirmEmail consumes an email confirmation token.
func (s *ConsoleService) ConfirmEmail(ctx context.Context, userID, token string) error {
	return s.backend.ConfirmEmail(ctx, userID, token)
}

// ForgotPassword requests a password reset link.
func (s *ConsoleService) ForgotPassword(ctx context.Context, email string) error {
	return s.backend.ForgotPassword(ctx, email)
}

// ResetPassword consumes a reset token and sets a new password.
func (s *ConsoleService) ResetPassword(ctx context.Context, email, token, newPassword string) error {
	return s.backend.ResetPassword(ctx, email, token, newPassword)
}
