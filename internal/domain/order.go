package domain

import (
	"time"

	"github.com/google/uuid"
)

type DeliveryOption string

const (
	DeliveryOptionDelivery DeliveryOption = "delivery"
	DeliveryOptionPickup   DeliveryOption = "pickup"
)

func (o DeliveryOption) Valid() bool {
	return o == DeliveryOptionDelivery || o == DeliveryOptionPickup
}

type PaymentMethod string

const (
	PaymentMethodCOD PaymentMethod = "COD"
	PaymentMethodUPI PaymentMethod = "UPI"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
)

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// PricedOrder is the order payload built at checkout submission time.
// It is immutable once constructed; a new checkout produces a new order.
type PricedOrder struct {
	ID              uuid.UUID      `json:"id"`
	UserID          string         `json:"user_id"`
	CustomerName    string         `json:"customer_name"`
	CustomerPhone   string         `json:"customer_phone"`
	DeliveryAddress string         `json:"delivery_address"`
	DeliveryOption  DeliveryOption `json:"delivery_option"`
	PaymentMethod   PaymentMethod  `json:"payment_method"`
	Location        *Coordinate    `json:"location,omitempty"`
	ZoneCode        string         `json:"zone_code"`
	Items           []LineItem     `json:"items"`
	ItemCount       int            `json:"item_count"`
	Subtotal        float64        `json:"subtotal"`
	DeliveryCharge  float64        `json:"delivery_charge"`
	HandlingCharge  float64        `json:"handling_charge"`
	SmallCartCharge float64        `json:"small_cart_charge"`
	GrandTotal      float64        `json:"grand_total"`
	TotalWeight     float64        `json:"total_weight"`
	Status          OrderStatus    `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
