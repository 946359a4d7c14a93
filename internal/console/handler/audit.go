package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/intellidoc/console-gateway/internal/console/service"
	"github.com/intellidoc/console-gateway/pkg/httputil"
	"github.com/intellidoc/console-gateway/pkg/logger"
)

// AuditHandler handles the review-screen audit actions and audit-trail reads.
type AuditHandler struct {
	service *service.ConsoleService
	logger  *logger.Logger
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(svc *service.ConsoleService, log *logger.Logger) *AuditHandler {
	return &AuditHandler{
		service: svc,
		logger:  log,
	}
}

// History returns the audit trail for one document.
func (h *AuditHandler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.AuditHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, entries)
}

// Logs returns the global audit log.
func (h *AuditHandler) Logs(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.AuditLogs(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, entries)
}

// UpdateField records a field correction.
func (h *AuditHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	var req service.FieldCorrection
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.CorrectField(r.Context(), req); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// Approve marks a document approved and returns the refreshed record.
func (h *AuditHandler) Approve(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.ApproveDocument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, doc)
}
