package app

import (
	"context"
	"time"

	"github.com/dwikikusuma/pos/internal/checkout/domain"
	salesdomain "github.com/dwikikusuma/pos/internal/sales/domain"
	"github.com/dwikikusuma/pos/pkg/contracts"
)

type CartReader interface {
	GetCart(ctx context.Context, sessionID string) ([]domain.Line, error)
	ClearCart(ctx context.Context, sessionID string) error
}

type Catalog interface {
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	// AdjustStock returns how many units were actually taken.
	AdjustStock(ctx context.Context, productID string, quantity int64) (int64, error)
	RestoreStock(ctx context.Context, productID string, quantity int64) error
}

type SalesLedger interface {
	NewSale(items []salesdomain.SaleItem) (salesdomain.Sale, error)
	Record(ctx context.Context, sale salesdomain.Sale, status salesdomain.Status) (salesdomain.Sale, error)
	MarkApplied(ctx context.Context, transactionID string, applied map[string]int64) error
	Confirm(ctx context.Context, transactionID string) error
	Discard(ctx context.Context, transactionID string) error
	ListPending(ctx context.Context) ([]salesdomain.Sale, error)
}

// TxRunner is implemented by stores that can commit several writes atomically.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type EventPublisher interface {
	PublishSaleRecorded(ctx context.Context, event contracts.SaleRecorded) error
}

type Recorder interface {
	ObserveCheckout(result string, d time.Duration)
}
