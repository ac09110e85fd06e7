package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/resto-labs/backend-resto/internal/common"
	"github.com/resto-labs/backend-resto/internal/obs"
	"github.com/resto-labs/backend-resto/internal/pricing"
)

// Handler wires the cart service to HTTP.
type Handler struct {
	Svc *Service
}

// Get returns the cart contents and total for the authenticated customer.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerFromContext(w, r)
	if !ok {
		return
	}
	view, err := h.Svc.View(r.Context(), customerID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// Validate reports cached line totals that disagree with a recompute.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerFromContext(w, r)
	if !ok {
		return
	}
	diffs, err := h.Svc.Validate(r.Context(), customerID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if diffs == nil {
		diffs = []pricing.LineDiff{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"diffs": diffs, "valid": len(diffs) == 0}})
}

type addItemPayload struct {
	ProductID           string            `json:"productId"`
	Qty                 int               `json:"qty"`
	Selection           pricing.Selection `json:"selection"`
	SpecialInstructions *string           `json:"specialInstructions"`
}

// AddItem handles POST /api/v1/cart/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerFromContext(w, r)
	if !ok {
		return
	}
	var payload addItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON payload", nil)
		return
	}
	productID, err := uuid.Parse(payload.ProductID)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid product id", nil)
		return
	}
	id, err := h.Svc.AddItem(r.Context(), customerID, AddItemInput{
		ProductID:           productID,
		Qty:                 payload.Qty,
		Selection:           payload.Selection,
		SpecialInstructions: payload.SpecialInstructions,
	})
	if err != nil {
		counterInc(obs.CartMutationsTotal, "add", "error")
		h.writeError(w, err)
		return
	}
	counterInc(obs.CartMutationsTotal, "add", "ok")
	common.JSON(w, http.StatusCreated, map[string]any{"data": map[string]any{"itemId": id}})
}

type updateItemPayload struct {
	Qty int `json:"qty"`
}

// UpdateItem handles PATCH /api/v1/cart/items/{id}.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerFromContext(w, r)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid item id", nil)
		return
	}
	var payload updateItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON payload", nil)
		return
	}
	if err := h.Svc.UpdateQty(r.Context(), customerID, itemID, payload.Qty); err != nil {
		counterInc(obs.CartMutationsTotal, "update", "error")
		h.writeError(w, err)
		return
	}
	counterInc(obs.CartMutationsTotal, "update", "ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"itemId": itemID}})
}

// RemoveItem handles DELETE /api/v1/cart/items/{id}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerFromContext(w, r)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid item id", nil)
		return
	}
	if err := h.Svc.RemoveItem(r.Context(), customerID, itemID); err != nil {
		counterInc(obs.CartMutationsTotal, "remove", "error")
		h.writeError(w, err)
		return
	}
	counterInc(obs.CartMutationsTotal, "remove", "ok")
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/v1/cart.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	customerID, ok := customerFromContext(w, r)
	if !ok {
		return
	}
	if err := h.Svc.Clear(r.Context(), customerID); err != nil {
		counterInc(obs.CartMutationsTotal, "clear", "error")
		h.writeError(w, err)
		return
	}
	counterInc(obs.CartMutationsTotal, "clear", "ok")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart item not found", nil)
	case errors.Is(err, ErrProductUnavailable):
		common.JSONError(w, http.StatusConflict, "UNAVAILABLE", "product is not available", nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}

// counterInc tolerates unregistered metrics so unit tests need no registry.
func counterInc(vec *prometheus.CounterVec, labels ...string) {
	if vec == nil {
		return
	}
	vec.WithLabelValues(labels...).Inc()
}

func customerFromContext(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token", nil)
		return uuid.Nil, false
	}
	return id, true
}
