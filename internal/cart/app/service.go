package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dwikikusuma/pos/internal/cart/domain"
)

type Service struct {
	store   SessionStore
	catalog CatalogReader
	now     func() time.Time
}

func NewService(store SessionStore, catalog CatalogReader) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		now:     time.Now,
	}
}

// SetClock replaces the time source used to stamp carts.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// StartSession opens a session that owns exactly one empty cart.
func (s *Service) StartSession(ctx context.Context) (string, error) {
	id := uuid.NewString()
	if err := s.store.Create(ctx, domain.NewCart(id, s.now())); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

func (s *Service) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.store.Get(ctx, sessionID)
}

// AddItem reads the product from the catalog and adds it to the session's cart.
// The stock check runs inside the cart against this fresh read.
func (s *Service) AddItem(ctx context.Context, sessionID, productID string, quantity int64) (*domain.Cart, error) {
	p, err := s.snapshot(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, sessionID, func(c *domain.Cart) error {
		return c.AddItem(p, quantity)
	})
}

func (s *Service) SetItemQuantity(ctx context.Context, sessionID, productID string, quantity int64) (*domain.Cart, error) {
	p, err := s.snapshot(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, sessionID, func(c *domain.Cart) error {
		return c.SetQuantity(p, quantity)
	})
}

func (s *Service) RemoveItem(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	return s.update(ctx, sessionID, func(c *domain.Cart) error {
		return c.RemoveItem(productID)
	})
}

func (s *Service) ClearCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.update(ctx, sessionID, func(c *domain.Cart) error {
		c.Clear()
		return nil
	})
}

// update applies fn to the session's cart and stamps it when fn succeeds.
func (s *Service) update(ctx context.Context, sessionID string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	return s.store.Update(ctx, sessionID, func(c *domain.Cart) error {
		if err := fn(c); err != nil {
			return err
		}
		c.UpdatedAt = s.now()
		return nil
	})
}

func (s *Service) snapshot(ctx context.Context, productID string) (domain.ProductSnapshot, error) {
	if strings.TrimSpace(productID) == "" {
		return domain.ProductSnapshot{}, fmt.Errorf("%w: product id is required", domain.ErrProductNotFound)
	}
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return domain.ProductSnapshot{}, fmt.Errorf("read product %s: %w", productID, err)
	}
	return p, nil
}
