package adapter

import (
	"context"
	"errors"
	"fmt"

	cartapp "github.com/dwikikusuma/pos/internal/cart/app"
	cartdomain "github.com/dwikikusuma/pos/internal/cart/domain"
	checkoutapp "github.com/dwikikusuma/pos/internal/checkout/app"
	"github.com/dwikikusuma/pos/internal/checkout/domain"
)

type CartServiceReader struct {
	svc *cartapp.Service
}

func NewCartServiceReader(svc *cartapp.Service) *CartServiceReader {
	return &CartServiceReader{svc: svc}
}

func (r *CartServiceReader) GetCart(ctx context.Context, sessionID string) ([]domain.Line, error) {
	cart, err := r.svc.GetCart(ctx, sessionID)
	if err != nil {
		return nil, mapCartErr(err)
	}

	items := cart.Items()
	lines := make([]domain.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, domain.Line{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return lines, nil
}

func (r *CartServiceReader) ClearCart(ctx context.Context, sessionID string) error {
	_, err := r.svc.ClearCart(ctx, sessionID)
	return mapCartErr(err)
}

func mapCartErr(err error) error {
	if errors.Is(err, cartdomain.ErrSessionNotFound) {
		return fmt.Errorf("%w: %v", checkoutapp.ErrSessionNotFound, err)
	}
	return err
}
