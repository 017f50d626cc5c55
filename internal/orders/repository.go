package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/swap841/my-store/internal/domain"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order already exists")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OrderRepository is the durable order sink. The checkout orchestrator
// hands a constructed order over and does not retry; durability is the
// sink's responsibility.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.PricedOrder) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.PricedOrder, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.PricedOrder, error)
	RunMigrations(*Credentials) error
	Close() error
}
