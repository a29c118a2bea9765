package admin

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/akuan1997/concertweb/api/internal/admin/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger  *slog.Logger
	indexes adminapp.IndexService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger       *slog.Logger
	IndexService adminapp.IndexService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:  logger,
		indexes: cfg.IndexService,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/index", h.indexStatusHandler())
	r.Post("/index/rebuild", h.indexRebuildHandler())
}
