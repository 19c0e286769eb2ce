package app

import (
	"context"

	"github.com/dwikikusuma/pos/internal/cart/domain"
)

// SessionStore owns the carts of active sessions. Returned carts are copies.
type SessionStore interface {
	Create(ctx context.Context, cart *domain.Cart) error
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	// Update runs fn on the stored cart while holding the session exclusively.
	Update(ctx context.Context, sessionID string, fn func(*domain.Cart) error) (*domain.Cart, error)
	Delete(ctx context.Context, sessionID string) error
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (domain.ProductSnapshot, error)
}
