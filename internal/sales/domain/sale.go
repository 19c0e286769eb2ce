package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	// StatusPending marks a sale whose stock adjustments are still in flight.
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
)

type SaleItem struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int64
}

func (i SaleItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

type Sale struct {
	TransactionID string
	Items         []SaleItem
	Total         decimal.Decimal
	Timestamp     time.Time
	Status        Status

	// Applied maps product id to the stock actually consumed for this sale.
	Applied map[string]int64
}

func (s Sale) Confirmed() bool {
	return s.Status == StatusConfirmed
}
