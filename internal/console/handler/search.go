package handler

import (
	"net/http"

	"github.com/intellidoc/console-gateway/internal/console/service"
	"github.com/intellidoc/console-gateway/pkg/httputil"
	"github.com/intellidoc/console-gateway/pkg/logger"
)

// SearchHandler handles full-text document search.
type SearchHandler struct {
	service *service.ConsoleService
	logger  *logger.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(svc *service.ConsoleService, log *logger.Logger) *SearchHandler {
	return &SearchHandler{
		service: svc,
		logger:  log,
	}
}

// Search runs a query from the "q" parameter. An empty query returns an
// empty result set rather than an error.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, results)
}
