package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swap841/my-store/internal/cache"
	"github.com/swap841/my-store/internal/domain"
	"github.com/swap841/my-store/internal/repository"
)

var (
	milk = domain.Product{ID: "p1", Name: "Milk 1L", Price: 30, WeightGrams: 1030}
	rice = domain.Product{ID: "p2", Name: "Rice 5kg", Price: 350, WeightGrams: 5000}
)

type mockRepository struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockRepository) GetCart(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, repository.ErrCartNotFound
	}
	return m.cart, nil
}

func (m *mockRepository) UpsertCart(_ context.Context, c *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cart = c
	return nil
}

func (m *mockRepository) DeleteCart(_ context.Context, _ string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.cart = nil
	return nil
}

func (m *mockRepository) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

type mockCache struct {
	m    sync.RWMutex
	cart *domain.Cart
	err  error
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = cart
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.cart = nil
	return m.err
}

func (m *mockCache) getCart() *domain.Cart {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.cart
}

func TestGetCart_Success(t *testing.T) {
	cart := &domain.Cart{
		Items: []domain.LineItem{
			{ProductID: "p1", Quantity: 5, UnitPrice: 30},
			{ProductID: "p2", Quantity: 10, UnitPrice: 350},
		},
		UserID:    "123",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	mockRepo := &mockRepository{cart: cart}
	mockC := &mockCache{cart: nil}

	sut := NewCartService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "123")
	require.NoError(t, err)
	assert.NotNil(t, ret)
	assert.Len(t, ret.Items, 2)
	assert.Equal(t, "p1", ret.Items[0].ProductID)
	assert.Equal(t, 5, ret.Items[0].Quantity)

	require.Eventually(t, func() bool {
		return mockC.getCart() != nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cart was not set in cache")
}

func TestGetCart_RepoError(t *testing.T) {
	mockRepo := &mockRepository{err: fmt.Errorf("database error")}
	mockC := &mockCache{cart: nil}

	sut := NewCartService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "123")
	require.ErrorContains(t, err, "database error")
	assert.Nil(t, ret)
	assert.Nil(t, mockC.getCart())
}

func TestGetCart_CacheHit(t *testing.T) {
	cart := &domain.Cart{
		Items:  []domain.LineItem{{ProductID: "p1", Quantity: 3}},
		UserID: "123",
	}
	mockRepo := &mockRepository{cart: nil} // repo should NOT be needed
	mockC := &mockCache{cart: cart}

	sut := NewCartService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "123")
	require.NoError(t, err)
	assert.Len(t, ret.Items, 1)
	assert.Equal(t, "p1", ret.Items[0].ProductID)
}

func TestGetCart_NotFound_ReturnsEmptyCart(t *testing.T) {
	mockRepo := &mockRepository{}
	mockC := &mockCache{}

	sut := NewCartService(mockRepo, mockC)
	ret, err := sut.GetCart(context.Background(), "123")
	require.NoError(t, err)
	assert.NotNil(t, ret)
	assert.Equal(t, "123", ret.UserID)
	assert.Empty(t, ret.Items)
}

func TestAddItem_NewProduct(t *testing.T) {
	mockRepo := &mockRepository{}
	mockC := &mockCache{cart: &domain.Cart{UserID: "123"}}

	sut := NewCartService(mockRepo, mockC)
	err := sut.AddItem(context.Background(), "123", milk, 5)
	require.NoError(t, err)

	stored := mockRepo.getCart()
	require.NotNil(t, stored)
	assert.Len(t, stored.Items, 1)
	assert.Equal(t, "p1", stored.Items[0].ProductID)
	assert.Equal(t, 5, stored.Items[0].Quantity)
	assert.Equal(t, 30.0, stored.Items[0].UnitPrice)

	// Verify cache was invalidated
	require.Eventually(t, func() bool {
		return mockC.getCart() == nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cache was not invalidated")
}

func TestAddItem_MergesSameProduct(t *testing.T) {
	mockRepo := &mockRepository{}
	mockC := &mockCache{}

	sut := NewCartService(mockRepo, mockC)
	require.NoError(t, sut.AddItem(context.Background(), "123", milk, 2))
	require.NoError(t, sut.AddItem(context.Background(), "123", milk, 3))

	stored := mockRepo.getCart()
	require.NotNil(t, stored)
	assert.Len(t, stored.Items, 1)
	assert.Equal(t, 5, stored.Items[0].Quantity)
}

func TestAddItem_RepoError(t *testing.T) {
	mockRepo := &mockRepository{err: fmt.Errorf("database error")}
	mockC := &mockCache{}

	sut := NewCartService(mockRepo, mockC)
	err := sut.AddItem(context.Background(), "123", milk, 5)
	require.ErrorContains(t, err, "database error")
}

func TestUpdateQuantity_Success(t *testing.T) {
	mockRepo := &mockRepository{cart: &domain.Cart{
		UserID: "123",
		Items: []domain.LineItem{
			{ProductID: "p1", Quantity: 5, UnitPrice: 30},
			{ProductID: "p2", Quantity: 10, UnitPrice: 350},
		},
	}}
	mockC := &mockCache{cart: &domain.Cart{UserID: "123"}}

	sut := NewCartService(mockRepo, mockC)
	err := sut.UpdateQuantity(context.Background(), "123", "p1", 20)
	require.NoError(t, err)
	assert.Equal(t, 20, mockRepo.getCart().Items[0].Quantity)

	require.Eventually(t, func() bool {
		return mockC.getCart() == nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cache was not invalidated")
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	mockRepo := &mockRepository{cart: &domain.Cart{
		UserID: "123",
		Items: []domain.LineItem{
			{ProductID: "p1", Quantity: 5},
			{ProductID: "p2", Quantity: 10},
		},
	}}
	mockC := &mockCache{}

	sut := NewCartService(mockRepo, mockC)
	err := sut.UpdateQuantity(context.Background(), "123", "p1", 0)
	require.NoError(t, err)

	stored := mockRepo.getCart()
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "p2", stored.Items[0].ProductID)
}

func TestRemoveItem_Success(t *testing.T) {
	mockRepo := &mockRepository{cart: &domain.Cart{
		UserID: "123",
		Items: []domain.LineItem{
			{ProductID: "p1", Quantity: 5},
			{ProductID: "p2", Quantity: 10},
		},
	}}
	mockC := &mockCache{cart: &domain.Cart{UserID: "123"}}

	sut := NewCartService(mockRepo, mockC)
	err := sut.RemoveItem(context.Background(), "123", "p1")
	require.NoError(t, err)

	stored := mockRepo.getCart()
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "p2", stored.Items[0].ProductID)

	require.Eventually(t, func() bool {
		return mockC.getCart() == nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cache was not invalidated")
}

func TestRemoveItem_AbsentProductIsIdempotent(t *testing.T) {
	mockRepo := &mockRepository{cart: &domain.Cart{
		UserID: "123",
		Items:  []domain.LineItem{{ProductID: "p1", Quantity: 5}},
	}}
	mockC := &mockCache{}

	sut := NewCartService(mockRepo, mockC)
	err := sut.RemoveItem(context.Background(), "123", "missing")
	require.NoError(t, err)
	assert.Len(t, mockRepo.getCart().Items, 1)
}

func TestClearCart_Success(t *testing.T) {
	mockRepo := &mockRepository{cart: &domain.Cart{
		UserID: "123",
		Items: []domain.LineItem{
			{ProductID: "p1", Quantity: 5},
			{ProductID: "p2", Quantity: 10},
		},
	}}
	mockC := &mockCache{cart: &domain.Cart{UserID: "123"}}

	sut := NewCartService(mockRepo, mockC)
	err := sut.ClearCart(context.Background(), "123")
	require.NoError(t, err)
	assert.Nil(t, mockRepo.getCart())

	require.Eventually(t, func() bool {
		return mockC.getCart() == nil
	}, 100*time.Millisecond, 10*time.Millisecond, "cache was not invalidated")
}

func TestClearCart_RepoError(t *testing.T) {
	mockRepo := &mockRepository{
		cart: &domain.Cart{Items: []domain.LineItem{{ProductID: "p1", Quantity: 5}}},
		err:  fmt.Errorf("database error"),
	}
	mockC := &mockCache{}

	sut := NewCartService(mockRepo, mockC)
	err := sut.ClearCart(context.Background(), "123")
	require.ErrorContains(t, err, "database error")
}

func TestSnapshot_RecomputesTotals(t *testing.T) {
	mockRepo := &mockRepository{cart: &domain.Cart{
		UserID: "123",
		Items: []domain.LineItem{
			{ProductID: "p1", Quantity: 2, UnitPrice: 30, UnitWeight: 1030},
			{ProductID: "p2", Quantity: 1, UnitPrice: 350, UnitWeight: 5000},
		},
	}}
	mockC := &mockCache{}

	sut := NewCartService(mockRepo, mockC)
	snap, err := sut.Snapshot(context.Background(), "123")
	require.NoError(t, err)

	assert.Equal(t, 3, snap.ItemCount)
	assert.InDelta(t, 410, snap.Subtotal, 1e-9)
	assert.InDelta(t, 7060, snap.TotalWeight, 1e-9)
}
