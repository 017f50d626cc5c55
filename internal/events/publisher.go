package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/swap841/my-store/internal/domain"
)

const OrderPlacedTopic = "order-placed"

// orderPlacedEvent is the wire form of a placed order. Consumers only
// need user_id to clear the mirrored cart; the rest is carried for
// fulfilment and audit consumers.
type orderPlacedEvent struct {
	OrderID        string            `json:"order_id"`
	UserID         string            `json:"user_id"`
	ZoneCode       string            `json:"zone_code"`
	DeliveryOption string            `json:"delivery_option"`
	Items          []domain.LineItem `json:"items"`
	GrandTotal     float64           `json:"grand_total"`
	PlacedAt       time.Time         `json:"placed_at"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  OrderPlacedTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, order *domain.PricedOrder) error {
	event := orderPlacedEvent{
		OrderID:        order.ID.String(),
		UserID:         order.UserID,
		ZoneCode:       order.ZoneCode,
		DeliveryOption: string(order.DeliveryOption),
		Items:          order.Items,
		GrandTotal:     order.GrandTotal,
		PlacedAt:       order.CreatedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order placed event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID.String()), // order_id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order_placed")},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
