package service

import (
	"github.com/intellidoc/console-gateway/internal/backend"
	"github.com/intellidoc/console-gateway/pkg/logger"
)

// ConsoleService holds the console's domain logic: review bundle assembly,
// field-correction bookkeeping, and webhook settings gating. Everything else
// is a thin delegation to the backend client.
type ConsoleService struct {
	backend *backend.Client
	logger  *logger.Logger
}

// NewConsoleService creates a new console service.
func NewConsoleService(client *backend.Client, log *logger.Logger) *ConsoleService {
	return &ConsoleService{
		backend: client,
		logger:  log,
	}
}
