package app

import (
	"context"

	catalogdomain "github.com/dwikikusuma/pos/internal/catalog/domain"
	salesdomain "github.com/dwikikusuma/pos/internal/sales/domain"
)

type ProductLister interface {
	ListProducts(ctx context.Context, search string) ([]catalogdomain.Product, error)
}

// SaleLister returns confirmed sales, newest first.
type SaleLister interface {
	ListConfirmed(ctx context.Context) ([]salesdomain.Sale, error)
}
