package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/swap841/my-store/internal/domain"
	"github.com/swap841/my-store/internal/orders"
)

// OrderStore is the read side of the order repository.
type OrderStore interface {
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.PricedOrder, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.PricedOrder, error)
}

type OrdersHandler struct {
	store   OrderStore
	timeout time.Duration
}

func NewOrdersHandler(store OrderStore, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		store:   store,
		timeout: timeout,
	}
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	list, err := h.store.ListOrdersByUserID(ctx, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load orders")
		return
	}
	if list == nil {
		list = []*domain.PricedOrder{}
	}

	respondJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}

	order, err := h.store.GetOrderByID(ctx, orderID)
	if errors.Is(err, orders.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load order")
		return
	}

	// Another user's order is indistinguishable from a missing one.
	if order.UserID != userID {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	respondJSON(w, http.StatusOK, order)
}
