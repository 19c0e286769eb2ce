package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/dwikikusuma/pos/internal/report/domain"
	salesdomain "github.com/dwikikusuma/pos/internal/sales/domain"
)

var ErrInvalidRange = errors.New("invalid date range")

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

var CSVHeader = []string{"Transaction ID", "Date", "Product Name", "Quantity", "Price", "Total"}

type Service struct {
	products ProductLister
	sales    SaleLister
	loc      *time.Location

	group singleflight.Group
}

// NewService groups sales by calendar day in loc.
func NewService(products ProductLister, sales SaleLister, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{products: products, sales: sales, loc: loc}
}

// Dashboard aggregates the catalog and all confirmed sales. Concurrent calls share one load,
// which does not stop when the caller that started it goes away.
func (s *Service) Dashboard(ctx context.Context) (domain.Dashboard, error) {
	shared := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do("dashboard", func() (any, error) {
		return s.dashboard(shared)
	})
	if err != nil {
		return domain.Dashboard{}, err
	}
	return v.(domain.Dashboard), nil
}

func (s *Service) dashboard(ctx context.Context) (domain.Dashboard, error) {
	products, err := s.products.ListProducts(ctx, "")
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("list products: %w", err)
	}
	sales, err := s.sales.ListConfirmed(ctx)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("list sales: %w", err)
	}

	d := domain.Dashboard{
		ProductCount:     len(products),
		TransactionCount: len(sales),
		TotalRevenue:     decimal.Zero,
	}

	byDay := map[string]decimal.Decimal{}
	byProduct := map[string]*domain.ProductSales{}
	for _, sale := range sales {
		d.TotalRevenue = d.TotalRevenue.Add(sale.Total)

		day := sale.Timestamp.In(s.loc).Format(dateLayout)
		byDay[day] = byDay[day].Add(sale.Total)

		for _, it := range sale.Items {
			ps, ok := byProduct[it.Name]
			if !ok {
				ps = &domain.ProductSales{Name: it.Name, Revenue: decimal.Zero}
				byProduct[it.Name] = ps
			}
			ps.Quantity += it.Quantity
			ps.Revenue = ps.Revenue.Add(it.LineTotal())
		}
	}

	for i, sale := range sales {
		if i == domain.RecentLimit {
			break
		}
		d.Recent = append(d.Recent, domain.TransactionSummary{
			TransactionID: sale.TransactionID,
			Date:          sale.Timestamp.In(s.loc).Format(dateTimeLayout),
			Total:         sale.Total,
		})
	}

	for day, rev := range byDay {
		d.RevenueByDay = append(d.RevenueByDay, domain.DailyRevenue{Date: day, Revenue: rev})
	}
	sort.Slice(d.RevenueByDay, func(i, j int) bool { return d.RevenueByDay[i].Date < d.RevenueByDay[j].Date })

	for _, ps := range byProduct {
		d.SalesByProduct = append(d.SalesByProduct, *ps)
	}
	sort.Slice(d.SalesByProduct, func(i, j int) bool { return d.SalesByProduct[i].Name < d.SalesByProduct[j].Name })

	return d, nil
}

// SalesBetween returns confirmed sales whose local date falls within [start, end], newest first.
// Dates are YYYY-MM-DD.
func (s *Service) SalesBetween(ctx context.Context, start, end string) ([]salesdomain.Sale, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	all, err := s.sales.ListConfirmed(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	out := make([]salesdomain.Sale, 0, len(all))
	for _, sale := range all {
		day := sale.Timestamp.In(s.loc).Format(dateLayout)
		if start <= day && day <= end {
			out = append(out, sale)
		}
	}
	return out, nil
}

// ExportCSV writes one row per line item of the sales in [start, end].
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, start, end string) (int, error) {
	sales, err := s.SalesBetween(ctx, start, end)
	if err != nil {
		return 0, err
	}
	return s.WriteCSV(w, sales)
}

// WriteCSV writes the header and the item rows of sales and returns the number of rows.
func (s *Service) WriteCSV(w io.Writer, sales []salesdomain.Sale) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return 0, err
	}

	rows := 0
	for _, sale := range sales {
		date := sale.Timestamp.In(s.loc).Format(time.ANSIC)
		for _, it := range sale.Items {
			err := cw.Write([]string{
				sale.TransactionID,
				date,
				it.Name,
				strconv.FormatInt(it.Quantity, 10),
				it.Price.String(),
				it.LineTotal().String(),
			})
			if err != nil {
				return rows, err
			}
			rows++
		}
	}

	cw.Flush()
	return rows, cw.Error()
}

func validateRange(start, end string) error {
	if _, err := time.Parse(dateLayout, start); err != nil {
		return fmt.Errorf("%w: start %q is not YYYY-MM-DD", ErrInvalidRange, start)
	}
	if _, err := time.Parse(dateLayout, end); err != nil {
		return fmt.Errorf("%w: end %q is not YYYY-MM-DD", ErrInvalidRange, end)
	}
	if start > end {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, start, end)
	}
	return nil
}
