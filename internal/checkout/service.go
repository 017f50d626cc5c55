package checkout

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/swap841/my-store/internal/domain"
	"github.com/swap841/my-store/internal/pricing"
)

// ZoneResolver maps a coordinate to a delivery-zone code.
type ZoneResolver interface {
	Resolve(point domain.Coordinate) (string, error)
}

// OrderSink accepts a constructed order for durable storage. Durability and
// retries are the sink's concern, not the orchestrator's.
type OrderSink interface {
	CreateOrder(ctx context.Context, order *domain.PricedOrder) error
}

// OrderPublisher announces a placed order to downstream consumers.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *domain.PricedOrder) error
}

// Request carries the checkout form fields for one submission. Location is
// nil when the device location was denied, stale, or timed out.
type Request struct {
	UserID          string
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	DeliveryOption  domain.DeliveryOption
	PaymentMethod   domain.PaymentMethod
	Location        *domain.Coordinate
}

// Service composes zone resolution and pricing into a submittable order.
// It is the sole translator from component failures to user-facing outcomes;
// the resolver and pricing engine never catch their own errors.
type Service struct {
	resolver  ZoneResolver
	tiers     pricing.TierConfig
	sink      OrderSink
	publisher OrderPublisher
}

func NewService(resolver ZoneResolver, tiers pricing.TierConfig, sink OrderSink, publisher OrderPublisher) *Service {
	return &Service{
		resolver:  resolver,
		tiers:     tiers,
		sink:      sink,
		publisher: publisher,
	}
}

// BuildOrder prices a cart snapshot and resolves the delivery zone. It does
// not persist anything and repeats none of the pricing arithmetic: pickup
// orders go through the same engine with the pickup fee schedule.
func (s *Service) BuildOrder(snap domain.CartSnapshot, req Request) (*domain.PricedOrder, error) {
	if snap.ItemCount == 0 {
		return nil, ErrEmptyCart
	}
	if !req.DeliveryOption.Valid() {
		return nil, ErrInvalidDeliveryOption
	}
	if req.PaymentMethod != domain.PaymentMethodCOD {
		return nil, ErrUnsupportedPayment
	}

	var (
		zoneCode  string
		breakdown pricing.Breakdown
		address   = req.DeliveryAddress
	)

	switch req.DeliveryOption {
	case domain.DeliveryOptionPickup:
		// No zone resolution for pickup; only handling applies on top of
		// the subtotal.
		zoneCode = domain.ZonePickup
		breakdown = pricing.Price(snap, s.tiers.ForPickup())
		if address == "" {
			address = "Store Pickup"
		}

	case domain.DeliveryOptionDelivery:
		if req.Location == nil {
			return nil, ErrMissingLocation
		}
		if address == "" {
			return nil, ErrMissingAddress
		}

		code, err := s.resolver.Resolve(*req.Location)
		if err != nil {
			return nil, fmt.Errorf("resolve delivery zone: %w", err)
		}
		zoneCode = code
		breakdown = pricing.Price(snap, s.tiers)
	}

	now := time.Now()
	return &domain.PricedOrder{
		ID:              uuid.New(),
		UserID:          req.UserID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: address,
		DeliveryOption:  req.DeliveryOption,
		PaymentMethod:   req.PaymentMethod,
		Location:        req.Location,
		ZoneCode:        zoneCode,
		Items:           snap.Items,
		ItemCount:       breakdown.ItemCount,
		Subtotal:        breakdown.Subtotal,
		DeliveryCharge:  breakdown.DeliveryCharge,
		HandlingCharge:  breakdown.HandlingCharge,
		SmallCartCharge: breakdown.SmallCartCharge,
		GrandTotal:      breakdown.GrandTotal,
		TotalWeight:     breakdown.TotalWeight,
		Status:          domain.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// PlaceOrder builds the order, hands it to the order sink, and announces it.
// A failed announcement does not fail the order: the order is already
// durable and the downstream cart clear is recoverable.
func (s *Service) PlaceOrder(ctx context.Context, snap domain.CartSnapshot, req Request) (*domain.PricedOrder, error) {
	order, err := s.BuildOrder(snap, req)
	if err != nil {
		return nil, err
	}

	if err := s.sink.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("store order: %w", err)
	}

	if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
		log.Printf("failed to publish order placed event for order %v: %v", order.ID, err)
	}

	return order, nil
}
