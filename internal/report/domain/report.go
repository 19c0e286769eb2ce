package domain

import "github.com/shopspring/decimal"

// RecentLimit is how many transactions the dashboard lists.
const RecentLimit = 5

type TransactionSummary struct {
	TransactionID string
	// Date is the local date-time, "2006-01-02 15:04:05".
	Date  string
	Total decimal.Decimal
}

type DailyRevenue struct {
	Date    string
	Revenue decimal.Decimal
}

type ProductSales struct {
	Name     string
	Quantity int64
	Revenue  decimal.Decimal
}

type Dashboard struct {
	ProductCount     int
	TransactionCount int
	TotalRevenue     decimal.Decimal
	Recent           []TransactionSummary
	RevenueByDay     []DailyRevenue
	SalesByProduct   []ProductSales
}
