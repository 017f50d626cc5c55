package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/swap841/my-store/internal/checkout"
	"github.com/swap841/my-store/internal/domain"
	"github.com/swap841/my-store/internal/geo"
)

type checkoutAPIMock struct {
	order *domain.PricedOrder
	err   error

	gotSnap domain.CartSnapshot
	gotReq  checkout.Request
}

func (m *checkoutAPIMock) PlaceOrder(ctx context.Context, snap domain.CartSnapshot, req checkout.Request) (*domain.PricedOrder, error) {
	m.gotSnap = snap
	m.gotReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

func deliveryRequestDTO() CheckoutRequestDTO {
	return CheckoutRequestDTO{
		CustomerName:    "Asha",
		CustomerPhone:   "9876543210",
		DeliveryAddress: "12 Sadar Bazar Rd",
		DeliveryOption:  "delivery",
		PaymentMethod:   "COD",
		Location:        &CoordinateDTO{Lat: 17.688, Lng: 74.006},
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	order := &domain.PricedOrder{
		ID:         uuid.New(),
		UserID:     "1",
		ZoneCode:   "ST-CENTRAL",
		GrandTotal: 87,
		Status:     domain.OrderStatusPending,
	}
	mock := &checkoutAPIMock{order: order}
	handler := NewCheckoutHandler(mock, &cartAPIMock{snap: milkSnapshot()}, 5*time.Second)

	reqBytes, _ := json.Marshal(deliveryRequestDTO())
	recorder := httptest.NewRecorder()
	request := withUser(httptest.NewRequest("POST", "/checkout", bytes.NewReader(reqBytes)), "1")

	handler.PlaceOrder(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Errorf("Expected status code %d, got %d", http.StatusCreated, recorder.Code)
	}

	var response domain.PricedOrder
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.ZoneCode != "ST-CENTRAL" {
		t.Errorf("Expected zone ST-CENTRAL, got '%s'", response.ZoneCode)
	}

	// Handler passes the fresh snapshot and translates the DTO faithfully
	if mock.gotSnap.ItemCount != 2 {
		t.Errorf("Expected snapshot with item_count 2, got %d", mock.gotSnap.ItemCount)
	}
	if mock.gotReq.Location == nil || mock.gotReq.Location.Lat != 17.688 {
		t.Errorf("Expected location lat 17.688, got %+v", mock.gotReq.Location)
	}
	if mock.gotReq.DeliveryOption != domain.DeliveryOptionDelivery {
		t.Errorf("Expected delivery option, got '%s'", mock.gotReq.DeliveryOption)
	}
}

func TestPlaceOrder_Unauthorized(t *testing.T) {
	handler := NewCheckoutHandler(&checkoutAPIMock{}, &cartAPIMock{}, 5*time.Second)

	reqBytes, _ := json.Marshal(deliveryRequestDTO())
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/checkout", bytes.NewReader(reqBytes))
	// No user_id in context

	handler.PlaceOrder(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code %d, got %d", http.StatusUnauthorized, recorder.Code)
	}
}

func TestPlaceOrder_InvalidJSON(t *testing.T) {
	handler := NewCheckoutHandler(&checkoutAPIMock{}, &cartAPIMock{}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withUser(httptest.NewRequest("POST", "/checkout", bytes.NewReader([]byte("not json"))), "1")

	handler.PlaceOrder(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestPlaceOrder_ErrorMapping(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedHTTP int
		expectedCode string
	}{
		{"empty cart", checkout.ErrEmptyCart, http.StatusBadRequest, "empty_cart"},
		{"missing location", checkout.ErrMissingLocation, http.StatusBadRequest, "missing_location"},
		{"missing address", checkout.ErrMissingAddress, http.StatusBadRequest, "missing_address"},
		{"invalid delivery option", checkout.ErrInvalidDeliveryOption, http.StatusBadRequest, "invalid_delivery_option"},
		{"unsupported payment", checkout.ErrUnsupportedPayment, http.StatusBadRequest, "unsupported_payment"},
		{"invalid coordinate", fmt.Errorf("resolve delivery zone: %w", geo.ErrInvalidCoordinate), http.StatusBadRequest, "invalid_coordinate"},
		{"storage failure", fmt.Errorf("store order: connection refused"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCheckoutHandler(&checkoutAPIMock{err: tt.err}, &cartAPIMock{snap: milkSnapshot()}, 5*time.Second)

			reqBytes, _ := json.Marshal(deliveryRequestDTO())
			recorder := httptest.NewRecorder()
			request := withUser(httptest.NewRequest("POST", "/checkout", bytes.NewReader(reqBytes)), "1")

			handler.PlaceOrder(recorder, request)

			if recorder.Code != tt.expectedHTTP {
				t.Errorf("Expected status code %d, got %d", tt.expectedHTTP, recorder.Code)
			}

			var response ErrorResponse
			json.NewDecoder(recorder.Body).Decode(&response)
			if response.Code != tt.expectedCode {
				t.Errorf("Expected error code '%s', got '%s'", tt.expectedCode, response.Code)
			}
		})
	}
}
