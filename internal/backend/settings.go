package backend

import (
	"context"
	"net/http"
)

// WebhookConfig is the webhook integration settings. The backend holds the
// authoritative copy; the console compares against it to gate test sends.
type WebhookConfig struct {
	EndpointURL string `json:"endpointUrl"`
	IsActive    bool   `json:"isActive"`
	Secret      string `json:"secret,omitempty"`
}

// GetWebhook reads the saved webhook configuration.
func (c *Client) GetWebhook(ctx context.Context) (*WebhookConfig, error) {
	var out WebhookConfig
	if err := c.doJSON(ctx, http.MethodGet, "/api/settings/webhook", nil, nil, &out, "settings-webhook"); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveWebhook stores a new webhook configuration. The save endpoint's body
// uses "url" where reads use "endpointUrl".
func (c *Client) SaveWebhook(ctx context.Context, endpointURL string, isActive bool) error {
	body := map[string]interface{}{
		"url":      endpointURL,
		"isActive": isActive,
	}
	return c.doJSON(ctx, http.MethodPost, "/api/settings/webhook", nil, body, nil, "settings-webhook-save")
}

// TestWebhook triggers a test delivery to the saved endpoint.
func (c *Client) TestWebhook(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/settings/webhook/test", nil, nil, nil, "settings-webhook-test")
}
