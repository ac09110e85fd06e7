package stats

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/resto-labs/backend-resto/internal/common"
)

// Handler exposes stats read endpoints.
type Handler struct {
	Svc *Service
}

// Dashboard returns the admin dashboard summary.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "STATS_NOT_CONFIGURED", "stats service not configured", nil)
		return
	}
	summary, err := h.Svc.Dashboard(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "STATS_ERROR", "failed to aggregate orders", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": summary})
}

// Today returns the summary for orders created today.
func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "STATS_NOT_CONFIGURED", "stats service not configured", nil)
		return
	}
	summary, err := h.Svc.Today(r.Context())
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "STATS_ERROR", "failed to aggregate orders", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": summary})
}

// Me returns the authenticated customer's order history summary.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "STATS_NOT_CONFIGURED", "stats service not configured", nil)
		return
	}
	raw, ok := common.UserID(r.Context())
	if !ok || raw == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	customerID, err := uuid.Parse(raw)
	if err != nil {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	summary, err := h.Svc.Customer(r.Context(), customerID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "STATS_ERROR", "failed to aggregate orders", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": summary})
}
