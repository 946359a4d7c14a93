package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/intellidoc/console-gateway/internal/backend"
	"github.com/intellidoc/console-gateway/internal/console/service"
	"github.com/intellidoc/console-gateway/internal/export"
	"github.com/intellidoc/console-gateway/pkg/httputil"
	"github.com/intellidoc/console-gateway/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves spreadsheet downloads: the backend's own exports
// passed through as-is, and workbooks built locally from normalized
// extraction data.
type ExportHandler struct {
	service *service.ConsoleService
	logger  *logger.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(svc *service.ConsoleService, log *logger.Logger) *ExportHandler {
	return &ExportHandler{
		service: svc,
		logger:  log,
	}
}

// ExportDocument streams the backend's export for one document.
func (h *ExportHandler) ExportDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	blob, err := h.service.ExportDocument(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	writeBlob(w, blob, fmt.Sprintf("document-%s.xlsx", id))
}

// ExportBatch streams one export covering the posted document ids. The
// request body is a bare JSON array of ids.
func (h *ExportHandler) ExportBatch(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if err := httputil.DecodeJSON(r, &ids); err != nil {
		httputil.Error(w, err)
		return
	}

	blob, err := h.service.ExportBatch(r.Context(), ids)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	writeBlob(w, blob, fmt.Sprintf("documents-export-%s.xlsx", time.Now().Format("2006-01-02")))
}

// Workbook builds an xlsx workbook from the document's normalized
// extraction and streams it.
func (h *ExportHandler) Workbook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.service.NormalizedExtraction(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	data, err := export.Workbook(result)
	if err != nil {
		h.logger.Error().Err(err).Str("document_id", id).Msg("workbook generation failed")
		httputil.Error(w, err)
		return
	}

	writeBlob(w, &backend.Blob{Data: data, ContentType: xlsxContentType}, fmt.Sprintf("extraction-%s.xlsx", id))
}

func writeBlob(w http.ResponseWriter, blob *backend.Blob, filename string) {
	contentType := blob.ContentType
	if contentType == "" {
		contentType = xlsxContentType
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(blob.Data)))
	w.Write(blob.Data)
}
