package app_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/dwikikusuma/pos/internal/catalog/domain"
	"github.com/dwikikusuma/pos/internal/report/app"
	salesdomain "github.com/dwikikusuma/pos/internal/sales/domain"
)

type fakeProducts struct {
	products []catalogdomain.Product
}

func (f *fakeProducts) ListProducts(ctx context.Context, search string) ([]catalogdomain.Product, error) {
	return f.products, nil
}

type fakeSales struct {
	sales   []salesdomain.Sale
	calls   atomic.Int32
	release chan struct{}
}

func (f *fakeSales) ListConfirmed(ctx context.Context) ([]salesdomain.Sale, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.sales, nil
}

func sale(id string, ts time.Time, items ...salesdomain.SaleItem) salesdomain.Sale {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return salesdomain.Sale{TransactionID: id, Items: items, Total: total, Timestamp: ts, Status: salesdomain.StatusConfirmed}
}

func item(name, price string, qty int64) salesdomain.SaleItem {
	return salesdomain.SaleItem{ProductID: "id-" + name, Name: name, Price: decimal.RequireFromString(price), Quantity: qty}
}

// fixtures are newest first, as the sales ledger returns them.
func fixtures() []salesdomain.Sale {
	day := func(d, h int) time.Time { return time.Date(2024, 3, d, h, 30, 0, 0, time.UTC) }
	return []salesdomain.Sale{
		sale("t7", day(12, 18), item("Milk", "1.50", 2)),
		sale("t6", day(12, 9), item("Bread", "5", 1)),
		sale("t5", day(11, 15), item("Apple", "10", 1), item("Milk", "1.50", 1)),
		sale("t4", day(11, 10), item("Apple", "10", 2)),
		sale("t3", day(10, 20), item("Bread", "5", 3)),
		sale("t2", day(10, 8), item("Apple", "10", 1)),
	}
}

func newService(sales *fakeSales) *app.Service {
	products := &fakeProducts{products: []catalogdomain.Product{{ID: "1"}, {ID: "2"}, {ID: "3"}}}
	return app.NewService(products, sales, time.UTC)
}

func TestDashboard(t *testing.T) {
	svc := newService(&fakeSales{sales: fixtures()})

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, d.ProductCount)
	assert.Equal(t, 6, d.TransactionCount)
	assert.Equal(t, "64.5", d.TotalRevenue.String())

	require.Len(t, d.Recent, 5)
	assert.Equal(t, "t7", d.Recent[0].TransactionID)
	assert.Equal(t, "2024-03-12 18:30:00", d.Recent[0].Date)
	assert.Equal(t, "t3", d.Recent[4].TransactionID)

	require.Len(t, d.RevenueByDay, 3)
	assert.Equal(t, "2024-03-10", d.RevenueByDay[0].Date)
	assert.Equal(t, "25", d.RevenueByDay[0].Revenue.String())
	assert.Equal(t, "2024-03-11", d.RevenueByDay[1].Date)
	assert.Equal(t, "31.5", d.RevenueByDay[1].Revenue.String())
	assert.Equal(t, "8", d.RevenueByDay[2].Revenue.String())

	require.Len(t, d.SalesByProduct, 3)
	assert.Equal(t, "Apple", d.SalesByProduct[0].Name)
	assert.Equal(t, int64(4), d.SalesByProduct[0].Quantity)
	assert.Equal(t, "40", d.SalesByProduct[0].Revenue.String())
	assert.Equal(t, "Bread", d.SalesByProduct[1].Name)
	assert.Equal(t, "Milk", d.SalesByProduct[2].Name)
	assert.Equal(t, int64(3), d.SalesByProduct[2].Quantity)
	assert.Equal(t, "4.5", d.SalesByProduct[2].Revenue.String())
}

func TestDashboardEmpty(t *testing.T) {
	svc := app.NewService(&fakeProducts{}, &fakeSales{}, time.UTC)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Zero(t, d.ProductCount)
	assert.Zero(t, d.TransactionCount)
	assert.True(t, d.TotalRevenue.IsZero())
	assert.Empty(t, d.Recent)
	assert.Empty(t, d.RevenueByDay)
}

func TestDashboardGroupsByLocalDay(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	ts := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	sales := &fakeSales{sales: []salesdomain.Sale{sale("late", ts, item("Tea", "2", 1))}}
	svc := app.NewService(&fakeProducts{}, sales, loc)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, d.RevenueByDay, 1)
	assert.Equal(t, "2024-03-11", d.RevenueByDay[0].Date)
	assert.Equal(t, "2024-03-11 03:00:00", d.Recent[0].Date)
}

func TestDashboardSharesConcurrentLoads(t *testing.T) {
	sales := &fakeSales{sales: fixtures(), release: make(chan struct{})}
	svc := newService(sales)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Dashboard(context.Background())
			errs <- err
		}()
	}

	time.Sleep(100 * time.Millisecond)
	close(sales.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Less(t, int(sales.calls.Load()), callers)
}

func TestDashboardOutlivesCancelledCaller(t *testing.T) {
	sales := &fakeSales{sales: fixtures(), release: make(chan struct{})}
	svc := newService(sales)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderDone := make(chan error, 1)
	go func() {
		_, err := svc.Dashboard(leaderCtx)
		leaderDone <- err
	}()

	for sales.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	waiterDone := make(chan error, 1)
	go func() {
		d, err := svc.Dashboard(context.Background())
		if err == nil && d.TransactionCount != 6 {
			err = assert.AnError
		}
		waiterDone <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancelLeader()
	close(sales.release)

	require.NoError(t, <-waiterDone)
	require.NoError(t, <-leaderDone)
}

func TestSalesBetween(t *testing.T) {
	svc := newService(&fakeSales{sales: fixtures()})
	ctx := context.Background()

	got, err := svc.SalesBetween(ctx, "2024-03-11", "2024-03-12")
	require.NoError(t, err)
	ids := make([]string, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.TransactionID)
	}
	assert.Equal(t, []string{"t7", "t6", "t5", "t4"}, ids)

	got, err = svc.SalesBetween(ctx, "2024-03-10", "2024-03-10")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.SalesBetween(ctx, "2025-01-01", "2025-12-31")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSalesBetweenRejectsBadRange(t *testing.T) {
	svc := newService(&fakeSales{sales: fixtures()})

	tests := []struct {
		name       string
		start, end string
	}{
		{name: "start after end", start: "2024-03-12", end: "2024-03-10"},
		{name: "bad start", start: "03/10/2024", end: "2024-03-10"},
		{name: "bad end", start: "2024-03-10", end: ""},
		{name: "impossible date", start: "2024-02-30", end: "2024-03-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SalesBetween(context.Background(), tt.start, tt.end)
			assert.ErrorIs(t, err, app.ErrInvalidRange)
		})
	}
}

func TestExportCSV(t *testing.T) {
	svc := newService(&fakeSales{sales: fixtures()})

	var buf bytes.Buffer
	rows, err := svc.ExportCSV(context.Background(), &buf, "2024-03-11", "2024-03-11")
	require.NoError(t, err)
	assert.Equal(t, 3, rows)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, app.CSVHeader, records[0])
	assert.Equal(t, []string{"t5", "Mon Mar 11 15:30:00 2024", "Apple", "1", "10", "10"}, records[1])
	assert.Equal(t, []string{"t5", "Mon Mar 11 15:30:00 2024", "Milk", "1", "1.5", "1.5"}, records[2])
	assert.Equal(t, []string{"t4", "Mon Mar 11 10:30:00 2024", "Apple", "2", "10", "20"}, records[3])
}

func TestExportCSVHeaderOnly(t *testing.T) {
	svc := newService(&fakeSales{})

	var buf bytes.Buffer
	rows, err := svc.ExportCSV(context.Background(), &buf, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Zero(t, rows)
	assert.Equal(t, "Transaction ID,Date,Product Name,Quantity,Price,Total\n", buf.String())
}
