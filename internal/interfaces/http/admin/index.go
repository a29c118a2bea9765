package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/akuan1997/concertweb/api/internal/interfaces/http/common"
)

// rebuildTimeout is longer than the public request timeout; a rebuild walks the whole collection.
const rebuildTimeout = 2 * time.Minute

func (h *Handler) indexStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.DefaultRequestTimeout)
		defer cancel()

		status, err := h.indexes.Status(ctx)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, status)
	}
}

func (h *Handler) indexRebuildHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), rebuildTimeout)
		defer cancel()

		admin, _ := common.AdminFromContext(r.Context())
		started := time.Now()
		result, err := h.indexes.Rebuild(ctx)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		h.logger.InfoContext(ctx, "performance index rebuilt",
			"admin", admin.ID,
			"scanned", result.Scanned,
			"updated", result.Updated,
			"unparseable", result.Unparseable,
			"duration_ms", time.Since(started).Milliseconds(),
		)
		common.WriteJSON(h.logger, w, http.StatusOK, result)
	}
}
