package handler

import (
	"net/http"

	"github.com/intellidoc/console-gateway/internal/console/service"
	"github.com/intellidoc/console-gateway/pkg/httputil"
	"github.com/intellidoc/console-gateway/pkg/logger"
)

// SettingsHandler handles the webhook integration settings.
type SettingsHandler struct {
	service *service.ConsoleService
	logger  *logger.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(svc *service.ConsoleService, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: svc,
		logger:  log,
	}
}

// GetWebhook returns the saved webhook configuration.
func (h *SettingsHandler) GetWebhook(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.GetWebhook(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, cfg)
}

// SaveWebhook stores a webhook configuration.
func (h *SettingsHandler) SaveWebhook(w http.ResponseWriter, r *http.Request) {
	var req service.WebhookSettings
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.SaveWebhook(r.Context(), req); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "webhook settings saved"})
}

// TestWebhook sends a test delivery against the saved settings. The body
// carries the client's current settings so unsaved edits are caught.
func (h *SettingsHandler) TestWebhook(w http.ResponseWriter, r *http.Request) {
	var req service.WebhookSettings
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.TestWebhook(r.Context(), req); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"message": "test delivery sent"})
}
