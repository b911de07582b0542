package handler

import (
	"log/slog"
	"net/http"
)

// Health は GET /api/health を処理する。DB に到達できなければ 503。
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		slog.Error("health check failed",
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeSuccess(w, http.StatusOK, "Cost Management API", nil)
}
