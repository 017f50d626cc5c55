package repository

import (
	"context"

	"github.com/swap841/my-store/internal/domain"
)

// CartRepository mirrors the session cart to durable storage after every
// mutation. The aggregate owns the merge semantics; the mirror stores the
// whole item sequence as-is.
// Consumers define this interface, not the MongoDB implementation.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, userID string) error
}
