package service

import (
	"context"

	"github.com/intellidoc/console-gateway/internal/backend"
	"github.com/intellidoc/console-gateway/pkg/errors"
)

// WebhookSettings is the client's view of the webhook configuration.
type WebhookSettings struct {
	EndpointURL string `json:"endpointUrl" validate:"omitempty,url"`
	IsActive    bool   `json:"isActive"`
}

// GetWebhook returns the saved webhook configuration.
func (s *ConsoleService) GetWebhook(ctx context.Context) (*backend.WebhookConfig, error) {
	return s.backend.GetWebhook(ctx)
}

// SaveWebhook stores a webhook configuration.
func (s *ConsoleService) SaveWebhook(ctx context.Context, settings WebhookSettings) error {
	if err := s.backend.SaveWebhook(ctx, settings.EndpointURL, settings.IsActive); err != nil {
		return err
	}
	s.logger.Info().Str("endpoint_url", settings.EndpointURL).Bool("is_active", settings.IsActive).Msg("webhook settings saved")
	return nil
}

// TestWebhook sends a test delivery, but only when the client's current
// settings match what the backend has saved. A test against unsaved edits
// would exercise the wrong endpoint, so it is rejected.
func (s *ConsoleService) TestWebhook(ctx context.Context, current WebhookSettings) error {
	saved, err := s.backend.GetWebhook(ctx)
	if err != nil {
		return err
	}

	if saved.EndpointURL != current.EndpointURL || saved.IsActive != current.IsActive {
		return errors.Conflict("save your webhook settings before sending a test")
	}

	return s.backend.TestWebhook(ctx)
}
