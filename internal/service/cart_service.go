package service

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/swap841/my-store/internal/cache"
	"github.com/swap841/my-store/internal/cart"
	"github.com/swap841/my-store/internal/domain"
	"github.com/swap841/my-store/internal/repository"
)

// CartService owns the cart for the lifetime of a session. Every mutation
// runs through the in-memory aggregate and the resulting item sequence is
// mirrored to the repository; the snapshot is the serialization boundary.
type CartService struct {
	repo  repository.CartRepository
	cache cache.CartCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.CartRepository, cache cache.CartCache) *CartService {
	return &CartService{
		repo:  repo,
		cache: cache,
	}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {

		c, err := s.cache.Get(ctx, userID)
		if err == nil {
			return c, nil // cart is in cache
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		c, errGet := s.repo.GetCart(ctx, userID)
		if errGet != nil && errors.Is(errGet, repository.ErrCartNotFound) { // not found cart return empty cart
			return &domain.Cart{
				UserID:    userID,
				Items:     nil,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet // err from repo is not cache miss, return it
		}

		// set cache
		go func() {
			errSet := s.cache.Set(context.Background(), userID, c)
			if errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return c, nil // cart was not in cache, return it from repo
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// Snapshot returns the cart with totals recomputed from the item sequence.
func (s *CartService) Snapshot(ctx context.Context, userID string) (domain.CartSnapshot, error) {
	c, err := s.GetCart(ctx, userID)
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	return cart.Snapshot(c.Items), nil
}

// AddItem merges the product into the cart (same product id increments the
// existing line in place) and mirrors the new sequence.
func (s *CartService) AddItem(ctx context.Context, userID string, product domain.Product, quantity int) error {
	return s.mutate(ctx, userID, func(a *cart.Aggregate) {
		a.Add(product, quantity)
	})
}

// UpdateQuantity sets a line's quantity; anything below 1 removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, productID string, quantity int) error {
	return s.mutate(ctx, userID, func(a *cart.Aggregate) {
		a.UpdateQuantity(productID, quantity)
	})
}

func (s *CartService) RemoveItem(ctx context.Context, userID string, productID string) error {
	return s.mutate(ctx, userID, func(a *cart.Aggregate) {
		a.Remove(productID)
	})
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	errDelete := s.repo.DeleteCart(ctx, userID)
	if errDelete != nil && !errors.Is(errDelete, repository.ErrCartNotFound) {
		log.Printf("repo delete cart error: %v \n", errDelete)
		return errDelete
	}

	invalidateCache(s, userID)
	return nil
}

// mutate loads the authoritative cart from the repository, replays it into
// the aggregate, applies the mutation, and mirrors the result back.
func (s *CartService) mutate(ctx context.Context, userID string, fn func(*cart.Aggregate)) error {
	existing, err := s.repo.GetCart(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		log.Printf("repo get cart error: %v \n", err)
		return err
	}

	var items []domain.LineItem
	var createdAt time.Time
	if existing != nil {
		items = existing.Items
		createdAt = existing.CreatedAt
	}

	agg := cart.New(items)
	fn(agg)

	errUpsert := s.repo.UpsertCart(ctx, &domain.Cart{
		UserID:    userID,
		Items:     agg.Items(),
		CreatedAt: createdAt,
	})
	if errUpsert != nil {
		log.Printf("repo upsert cart error: %v \n", errUpsert)
		return errUpsert
	}

	invalidateCache(s, userID)
	return nil
}

func invalidateCache(s *CartService, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	errInvalidate := s.cache.Delete(ctx, userID)
	if errInvalidate != nil {
		log.Printf("cache invalidate error: %v \n", errInvalidate)
	}
}
