package order

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/resto-labs/backend-resto/internal/common"
	"github.com/resto-labs/backend-resto/internal/events"
	"github.com/resto-labs/backend-resto/internal/obs"
	"github.com/resto-labs/backend-resto/internal/store"
)

type adminQueries interface {
	ListOrders(ctx context.Context, arg store.ListOrdersParams) ([]store.Order, error)
	CountOrders(ctx context.Context, status *string) (int64, error)
	GetOrder(ctx context.Context, id uuid.UUID) (store.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (store.Order, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) (store.Order, error)
}

// AdminHandler provides the staff order board endpoints.
type AdminHandler struct {
	Q      adminQueries
	Events *events.Bus
}

// List handles GET /api/v1/admin/orders with optional status filter.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order queries not configured", nil)
		return
	}
	var statusFilter *string
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		if !Status(raw).Known() {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown status filter", nil)
			return
		}
		statusFilter = &raw
	}
	page, perPage := common.ParsePagination(r, 50)
	if perPage > 200 {
		perPage = 200
	}
	total, err := h.Q.CountOrders(r.Context(), statusFilter)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to count orders", nil)
		return
	}
	orders, err := h.Q.ListOrders(r.Context(), store.ListOrdersParams{
		Status: statusFilter,
		Limit:  int32(perPage),
		Offset: int32((page - 1) * perPage),
	})
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list orders", nil)
		return
	}
	response := make([]map[string]any, 0, len(orders))
	for _, ord := range orders {
		response = append(response, map[string]any{
			"id":            ord.ID,
			"customerName":  ord.CustomerName,
			"customerFloor": ord.CustomerFloor,
			"status":        viewOf(ord.Status),
			"paymentStatus": ord.PaymentStatus,
			"orderType":     ord.OrderType,
			"deliveryTime":  ord.DeliveryTime,
			"totalAmount":   ord.TotalAmount,
			"createdAt":     ord.CreatedAt,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       response,
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: int(total)},
	})
}

type patchStatusRequest struct {
	Status string `json:"status"`
}

// PatchStatus updates the order status with state-machine validation.
func (h *AdminHandler) PatchStatus(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order queries not configured", nil)
		return
	}
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid order id", nil)
		return
	}
	var req patchStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	target := Status(strings.TrimSpace(req.Status))
	if !target.Known() {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unsupported status", nil)
		return
	}
	current, err := h.Q.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load order", nil)
		return
	}
	from := Status(current.Status)
	if !CanTransition(from, target) {
		common.JSONError(w, http.StatusConflict, "INVALID_STATE", "state transition not allowed", map[string]any{
			"from": current.Status,
			"to":   string(target),
		})
		return
	}
	updated, err := h.Q.UpdateOrderStatus(r.Context(), orderID, string(target))
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to update order status", nil)
		return
	}
	counterInc(obs.OrderStatusTransitions, string(from), string(target))
	if h.Events != nil {
		_, _ = h.Events.Emit(r.Context(), events.TopicOrderStatusChanged, updated.ID, map[string]any{
			"orderId": updated.ID.String(),
			"from":    string(from),
			"to":      string(target),
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"id":        updated.ID,
			"status":    viewOf(updated.Status),
			"updatedAt": updated.UpdatedAt,
		},
	})
}

type patchPaymentRequest struct {
	PaymentStatus string `json:"paymentStatus"`
}

// PatchPayment updates the order payment status.
func (h *AdminHandler) PatchPayment(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order queries not configured", nil)
		return
	}
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid order id", nil)
		return
	}
	var req patchPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	target := strings.TrimSpace(req.PaymentStatus)
	if !ValidPayment(target) {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unsupported payment status", nil)
		return
	}
	updated, err := h.Q.UpdatePaymentStatus(r.Context(), orderID, target)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to update payment status", nil)
		return
	}
	if h.Events != nil {
		_, _ = h.Events.Emit(r.Context(), events.TopicOrderPaymentUpdated, updated.ID, map[string]any{
			"orderId":       updated.ID.String(),
			"paymentStatus": updated.PaymentStatus,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"id":            updated.ID,
			"paymentStatus": updated.PaymentStatus,
			"updatedAt":     updated.UpdatedAt,
		},
	})
}

func counterInc(vec *prometheus.CounterVec, labels ...string) {
	if vec == nil {
		return
	}
	vec.WithLabelValues(labels...).Inc()
}
