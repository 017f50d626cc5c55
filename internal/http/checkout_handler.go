package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/swap841/my-store/internal/checkout"
	"github.com/swap841/my-store/internal/domain"
	"github.com/swap841/my-store/internal/geo"
)

// CheckoutAPI places an order against the current cart snapshot.
type CheckoutAPI interface {
	PlaceOrder(ctx context.Context, snap domain.CartSnapshot, req checkout.Request) (*domain.PricedOrder, error)
}

type CheckoutHandler struct {
	checkout CheckoutAPI
	cart     CartAPI
	timeout  time.Duration
}

func NewCheckoutHandler(c CheckoutAPI, cart CartAPI, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: c,
		cart:     cart,
		timeout:  timeout,
	}
}

type CoordinateDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type CheckoutRequestDTO struct {
	CustomerName    string         `json:"customer_name"`
	CustomerPhone   string         `json:"customer_phone"`
	DeliveryAddress string         `json:"delivery_address"`
	DeliveryOption  string         `json:"delivery_option"`
	PaymentMethod   string         `json:"payment_method"`
	Location        *CoordinateDTO `json:"location,omitempty"`
}

// POST /api/v1/checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	snap, err := h.cart.Snapshot(ctx, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	checkoutReq := checkout.Request{
		UserID:          userID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryOption:  domain.DeliveryOption(req.DeliveryOption),
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
	}
	if req.Location != nil {
		checkoutReq.Location = &domain.Coordinate{Lat: req.Location.Lat, Lng: req.Location.Lng}
	}

	order, err := h.checkout.PlaceOrder(ctx, snap, checkoutReq)
	if err != nil {
		handleCheckoutError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func handleCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
	case errors.Is(err, checkout.ErrMissingLocation):
		respondError(w, http.StatusBadRequest, "missing_location", "delivery requires a device location")
	case errors.Is(err, checkout.ErrMissingAddress):
		respondError(w, http.StatusBadRequest, "missing_address", "delivery requires an address")
	case errors.Is(err, checkout.ErrInvalidDeliveryOption):
		respondError(w, http.StatusBadRequest, "invalid_delivery_option", "delivery_option must be delivery or pickup")
	case errors.Is(err, checkout.ErrUnsupportedPayment):
		respondError(w, http.StatusBadRequest, "unsupported_payment", "only cash on delivery is supported")
	case errors.Is(err, geo.ErrInvalidCoordinate):
		respondError(w, http.StatusBadRequest, "invalid_coordinate", "location coordinates are not finite")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to place order")
	}
}
