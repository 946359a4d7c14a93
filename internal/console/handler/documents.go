package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/intellidoc/console-gateway/internal/console/service"
	"github.com/intellidoc/console-gateway/pkg/errors"
	"github.com/intellidoc/console-gateway/pkg/httputil"
	"github.com/intellidoc/console-gateway/pkg/logger"
)

const maxUploadSize = 50 << 20

// DocumentsHandler handles document upload, listing and review.
type DocumentsHandler struct {
	service *service.ConsoleService
	logger  *logger.Logger
}

// NewDocumentsHandler creates a new documents handler.
func NewDocumentsHandler(svc *service.ConsoleService, log *logger.Logger) *DocumentsHandler {
	return &DocumentsHandler{
		service: svc,
		logger:  log,
	}
}

// Upload accepts one multipart file under the field name "file" and
// forwards it to the backend.
func (h *DocumentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httputil.Error(w, errors.BadRequest("invalid or oversized upload"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.Error(w, errors.BadRequest("missing file field"))
		return
	}
	defer file.Close()

	resp, err := h.service.Upload(r.Context(), header.Filename, file)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, resp)
}

// List returns the caller's documents.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.ListDocuments(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, docs)
}

// Get returns one document record.
func (h *DocumentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.GetDocument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, doc)
}

// Review returns the assembled review bundle for a document.
func (h *DocumentsHandler) Review(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.service.GetReviewBundle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, bundle)
}

// DownloadURL returns a preview URL for a document.
func (h *DocumentsHandler) DownloadURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.service.DownloadURL(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]string{"url": url})
}
