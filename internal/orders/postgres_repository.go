package orders

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/lib/pq"
	_ "github.com/lib/pq"

	"github.com/swap841/my-store/internal/domain"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "orders_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *Repository) CreateOrder(ctx context.Context, order *domain.PricedOrder) error {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	var locationJSON []byte
	if order.Location != nil {
		locationJSON, err = json.Marshal(order.Location)
		if err != nil {
			return fmt.Errorf("failed to marshal order location: %w", err)
		}
	}

	query := `INSERT INTO orders (
	              id, user_id, customer_name, customer_phone, delivery_address,
	              delivery_option, payment_method, location, zone_code, items,
	              item_count, subtotal, delivery_charge, handling_charge,
	              small_cart_charge, grand_total, total_weight, status,
	              created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
	                  $11, $12, $13, $14, $15, $16, $17, $18, NOW(), NOW())`

	_, insertErr := r.db.ExecContext(ctx, query,
		order.ID,
		order.UserID,
		order.CustomerName,
		order.CustomerPhone,
		order.DeliveryAddress,
		order.DeliveryOption,
		order.PaymentMethod,
		locationJSON,
		order.ZoneCode,
		itemsJSON,
		order.ItemCount,
		order.Subtotal,
		order.DeliveryCharge,
		order.HandlingCharge,
		order.SmallCartCharge,
		order.GrandTotal,
		order.TotalWeight,
		order.Status)

	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("insert order: %w", insertErr)
	}
	return nil
}

const selectOrderColumns = `id, user_id, customer_name, customer_phone, delivery_address,
	delivery_option, payment_method, location, zone_code, items,
	item_count, subtotal, delivery_charge, handling_charge,
	small_cart_charge, grand_total, total_weight, status,
	created_at, updated_at`

func (r *Repository) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.PricedOrder, error) {
	query := `SELECT ` + selectOrderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	return order, nil
}

func (r *Repository) ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.PricedOrder, error) {
	query := `SELECT ` + selectOrderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders by user id: %w", err)
	}
	defer rows.Close()

	var result []*domain.PricedOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		result = append(result, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.PricedOrder, error) {
	var order domain.PricedOrder
	var itemsJSON, locationJSON []byte

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.CustomerName,
		&order.CustomerPhone,
		&order.DeliveryAddress,
		&order.DeliveryOption,
		&order.PaymentMethod,
		&locationJSON,
		&order.ZoneCode,
		&itemsJSON,
		&order.ItemCount,
		&order.Subtotal,
		&order.DeliveryCharge,
		&order.HandlingCharge,
		&order.SmallCartCharge,
		&order.GrandTotal,
		&order.TotalWeight,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &order.Items); err != nil {
		return nil, fmt.Errorf("unmarshal order items: %w", err)
	}
	if len(locationJSON) > 0 {
		order.Location = &domain.Coordinate{}
		if err := json.Unmarshal(locationJSON, order.Location); err != nil {
			return nil, fmt.Errorf("unmarshal order location: %w", err)
		}
	}

	return &order, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
