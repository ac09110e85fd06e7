package order

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/resto-labs/backend-resto/internal/common"
	"github.com/resto-labs/backend-resto/internal/pricing"
	"github.com/resto-labs/backend-resto/internal/store"
)

type customerQueries interface {
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int32) ([]store.Order, error)
	CountOrdersByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	GetOrderForCustomer(ctx context.Context, id, customerID uuid.UUID) (store.Order, error)
	ListOrderItems(ctx context.Context, orderID uuid.UUID) ([]store.OrderItem, error)
}

// Handler exposes customer-facing order endpoints.
type Handler struct {
	Q customerQueries
}

// statusView decorates a raw status with its display metadata.
type statusView struct {
	Status   string `json:"status"`
	Label    string `json:"label"`
	Color    string `json:"color"`
	Progress int    `json:"progress"`
	Terminal bool   `json:"terminal"`
}

func viewOf(raw string) statusView {
	s := Status(raw)
	return statusView{
		Status:   raw,
		Label:    s.Label(),
		Color:    s.Color(),
		Progress: s.Progress(),
		Terminal: s.Terminal(),
	}
}

// List handles GET /api/v1/orders for the authenticated customer.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order queries not configured", nil)
		return
	}
	customerID, ok := customerFromContext(w, r)
	if !ok {
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	if perPage > 100 {
		perPage = 100
	}
	total, err := h.Q.CountOrdersByCustomer(r.Context(), customerID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to count orders", nil)
		return
	}
	orders, err := h.Q.ListOrdersByCustomer(r.Context(), customerID, int32(perPage), int32((page-1)*perPage))
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list orders", nil)
		return
	}
	response := make([]map[string]any, 0, len(orders))
	for _, ord := range orders {
		response = append(response, map[string]any{
			"id":            ord.ID,
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

// Get handles GET /api/v1/orders/{id}: the full order with its frozen lines
// and per-order stats.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order queries not configured", nil)
		return
	}
	customerID, ok := customerFromContext(w, r)
	if !ok {
		return
	}
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid order id", nil)
		return
	}
	ord, err := h.Q.GetOrderForCustomer(r.Context(), orderID, customerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load order", nil)
		return
	}
	items, err := h.Q.ListOrderItems(r.Context(), ord.ID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load order items", nil)
		return
	}
	lines := make([]pricing.OrderLine, 0, len(items))
	itemViews := make([]map[string]any, 0, len(items))
	for _, it := range items {
		lines = append(lines, pricing.OrderLine{
			ProductID:  it.ProductID.String(),
			Qty:        int(it.Qty),
			TotalPrice: it.TotalPrice,
		})
		itemViews = append(itemViews, map[string]any{
			"id":                  it.ID,
			"productId":           it.ProductID,
			"productName":         it.ProductName,
			"qty":                 it.Qty,
			"selection":           pricing.ParseSelection(it.SelectedAddons),
			"specialInstructions": it.SpecialInstructions,
			"unitPrice":           it.UnitPrice,
			"totalPrice":          it.TotalPrice,
		})
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"id":            ord.ID,
			"customerName":  ord.CustomerName,
			"customerFloor": ord.CustomerFloor,
			"status":        viewOf(ord.Status),
			"paymentStatus": ord.PaymentStatus,
			"paymentMethod": ord.PaymentMethod,
			"orderType":     ord.OrderType,
			"deliveryTime":  ord.DeliveryTime,
			"subtotal":      ord.Subtotal,
			"totalAmount":   ord.TotalAmount,
			"notes":         ord.Notes,
			"items":         itemViews,
			"stats":         pricing.OrderStats(lines),
			"createdAt":     ord.CreatedAt,
			"updatedAt":     ord.UpdatedAt,
		},
	})
}

// Track handles GET /api/v1/orders/{id}/track: a slim status payload the
// frontend polls while an order is in flight.
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	if h.Q == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "order queries not configured", nil)
		return
	}
	customerID, ok := customerFromContext(w, r)
	if !ok {
		return
	}
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid order id", nil)
		return
	}
	ord, err := h.Q.GetOrderForCustomer(r.Context(), orderID, customerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to load order", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"id":            ord.ID,
			"status":        viewOf(ord.Status),
			"paymentStatus": ord.PaymentStatus,
			"updatedAt":     ord.UpdatedAt,
		},
	})
}

func customerFromContext(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw, ok := common.UserID(r.Context())
	if !ok || raw == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return uuid.Nil, false
	}
	return id, true
}
