package domain

import "github.com/shopspring/decimal"

// Line is a cart line as checkout sees it: the name and price snapshot taken at add time.
type Line struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int64
}

// Product is the fresh catalog read used to re-validate stock.
type Product struct {
	ID    string
	Name  string
	Stock int64
}
