package poller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/swap841/my-store/internal/cache"
	"github.com/swap841/my-store/internal/events"
	"github.com/swap841/my-store/internal/repository"
)

// Poller consumes order-placed events and clears the buyer's cart. The
// clear is asynchronous on purpose: checkout already succeeded, so a
// lagging consumer only means the cart empties a little late.
type Poller struct {
	repo   repository.CartRepository
	cache  cache.CartCache
	reader *kafka.Reader
}

func NewPoller(repo repository.CartRepository, c cache.CartCache, brokers ...string) *Poller {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    events.OrderPlacedTopic,
		GroupID:  "storefront-cart-clear",
		MaxBytes: 10e6, // 10MB
	})
	return &Poller{repo, c, reader}
}

func (p *Poller) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		p.consumeAndClearCart(ctx)
	}
}

func (p *Poller) Close() {
	if err := p.reader.Close(); err != nil {
		fmt.Printf("error closing reader: %v\n", err)
	}
}

func (p *Poller) consumeAndClearCart(ctx context.Context) {
	m, err := p.reader.ReadMessage(ctx)
	if err != nil {
		fmt.Printf("error reading message: %v\n", err)
		return
	}

	var payload map[string]interface{}
	if errUnmarshal := json.Unmarshal(m.Value, &payload); errUnmarshal != nil {
		fmt.Printf("error parsing message: %v\n", errUnmarshal)
		return
	}
	userID, ok := payload["user_id"].(string)
	if !ok {
		fmt.Println("missing or invalid user_id")
		return
	}

	errDelete := p.repo.DeleteCart(ctx, userID)
	if errDelete != nil && !errors.Is(errDelete, repository.ErrCartNotFound) {
		fmt.Printf("failed to delete cart: %v\n", errDelete)
	}

	if errCacheDelete := p.cache.Delete(ctx, userID); errCacheDelete != nil {
		fmt.Printf("failed to delete cache: %v\n", errCacheDelete)
	}
}
