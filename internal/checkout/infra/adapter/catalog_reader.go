package adapter

import (
	"context"
	"errors"
	"fmt"

	catalogapp "github.com/dwikikusuma/pos/internal/catalog/app"
	checkoutapp "github.com/dwikikusuma/pos/internal/checkout/app"
	"github.com/dwikikusuma/pos/internal/checkout/domain"
)

// CatalogService gives checkout read access plus the two stock operations it needs.
type CatalogService struct {
	svc *catalogapp.Service
}

func NewCatalogService(svc *catalogapp.Service) *CatalogService {
	return &CatalogService{svc: svc}
}

func (r *CatalogService) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	p, err := r.svc.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, mapCatalogErr(err)
	}

	return domain.Product{
		ID:    p.ID,
		Name:  p.Name,
		Stock: p.Stock,
	}, nil
}

func (r *CatalogService) AdjustStock(ctx context.Context, productID string, quantity int64) (int64, error) {
	consumed, err := r.svc.AdjustStock(ctx, productID, quantity)
	return consumed, mapCatalogErr(err)
}

func (r *CatalogService) RestoreStock(ctx context.Context, productID string, quantity int64) error {
	return mapCatalogErr(r.svc.RestoreStock(ctx, productID, quantity))
}

func mapCatalogErr(err error) error {
	if errors.Is(err, catalogapp.ErrNotFound) || errors.Is(err, catalogapp.ErrInvalidInput) {
		return fmt.Errorf("%w: %v", checkoutapp.ErrProductNotFound, err)
	}
	return err
}
