package handler

import (
	"net/http"

	"github.com/intellidoc/console-gateway/internal/console/service"
	"github.com/intellidoc/console-gateway/pkg/httputil"
	"github.com/intellidoc/console-gateway/pkg/logger"
)

// DashboardHandler serves the aggregate analytics figures.
type DashboardHandler struct {
	service *service.ConsoleService
	logger  *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(svc *service.ConsoleService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: svc,
		logger:  log,
	}
}

// Stats returns the dashboard statistics.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.DashboardStats(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, stats)
}
