package app

import (
	"context"

	"github.com/dwikikusuma/pos/internal/sales/domain"
)

type SaleRepo interface {
	Create(ctx context.Context, sale domain.Sale) error
	Get(ctx context.Context, transactionID string) (domain.Sale, error)
	SetApplied(ctx context.Context, transactionID string, applied map[string]int64) error
	SetStatus(ctx context.Context, transactionID string, status domain.Status) error
	Delete(ctx context.Context, transactionID string) error
	List(ctx context.Context) ([]domain.Sale, error)
}
