package app

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dwikikusuma/pos/internal/catalog/domain"
)

type fakeRepo struct {
	mu       sync.Mutex
	products map[string]domain.Product
	seq      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: make(map[string]domain.Product)}
}

func (f *fakeRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	p.ID = "p" + strconv.Itoa(f.seq)
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) Update(ctx context.Context, p domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.ID]; !ok {
		return ErrNotFound
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeRepo) SetStock(ctx context.Context, id string, stock int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return ErrNotFound
	}
	p.Stock = stock
	f.products[id] = p
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeRepo) List(ctx context.Context) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(newFakeRepo())

	t.Run("empty name -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), "   ", price("1"), 1)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("negative price -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), "Keyboard", price("-0.01"), 1)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("negative stock -> invalid", func(t *testing.T) {
		_, err := svc.CreateProduct(context.Background(), "Keyboard", price("1"), -1)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("zero price and stock are allowed", func(t *testing.T) {
		p, err := svc.CreateProduct(context.Background(), " Freebie ", decimal.Zero, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ID == "" || p.Name != "Freebie" {
			t.Fatalf("unexpected product: %+v", p)
		}
	})
}

func TestUpdateThenList(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())

	p, err := svc.CreateProduct(ctx, "Widget", price("9.99"), 5)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.CreateProduct(ctx, "Gadget", price("3"), 1); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.UpdateProduct(ctx, p.ID, "Widget", price("12.0"), 5); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := svc.ListProducts(ctx, "widget")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 product, got %d", len(got))
	}
	if !got[0].Price.Equal(price("12")) {
		t.Fatalf("expected price 12.0, got %s", got[0].Price)
	}
}

func TestUpdateMissingProduct(t *testing.T) {
	svc := NewService(newFakeRepo())
	_, err := svc.UpdateProduct(context.Background(), "nope", "Widget", price("1"), 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteMissingLeavesCatalogUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)
	if _, err := svc.CreateProduct(ctx, "Widget", price("1"), 1); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteProduct(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	all, _ := svc.ListProducts(ctx, "")
	if len(all) != 1 {
		t.Fatalf("expected catalog unchanged, got %d products", len(all))
	}
}

func TestListProductsOrdering(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())
	for _, n := range []string{"Tea", "Apple Juice", "Milk Tea"} {
		if _, err := svc.CreateProduct(ctx, n, price("1"), 1); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := svc.ListProducts(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].Name != "Apple Juice" || all[2].Name != "Tea" {
		t.Fatalf("unexpected order: %+v", all)
	}

	teas, _ := svc.ListProducts(ctx, "TEA")
	if len(teas) != 2 {
		t.Fatalf("expected 2 tea products, got %d", len(teas))
	}
}

func TestAdjustStockNeverNegative(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())
	p, _ := svc.CreateProduct(ctx, "Widget", price("1"), 5)

	cases := []struct {
		consume      int64
		wantStock    int64
		wantConsumed int64
	}{
		{consume: 2, wantStock: 3, wantConsumed: 2},
		{consume: 0, wantStock: 3, wantConsumed: 0},
		{consume: 10, wantStock: 0, wantConsumed: 3},
		{consume: 1, wantStock: 0, wantConsumed: 0},
	}

	for _, tc := range cases {
		consumed, err := svc.AdjustStock(ctx, p.ID, tc.consume)
		if err != nil {
			t.Fatalf("adjust %d: %v", tc.consume, err)
		}
		got, _ := svc.GetProduct(ctx, p.ID)
		if got.Stock != tc.wantStock || consumed != tc.wantConsumed {
			t.Fatalf("adjust %d: got stock=%d consumed=%d, want stock=%d consumed=%d",
				tc.consume, got.Stock, consumed, tc.wantStock, tc.wantConsumed)
		}
	}
}

func TestAdjustStockErrors(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())

	if _, err := svc.AdjustStock(ctx, "nope", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.AdjustStock(ctx, "nope", -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRestoreStock(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())
	p, _ := svc.CreateProduct(ctx, "Widget", price("1"), 2)

	if _, err := svc.AdjustStock(ctx, p.ID, 2); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if err := svc.RestoreStock(ctx, p.ID, 2); err != nil {
		t.Fatalf("restore: %v", err)
	}
	got, _ := svc.GetProduct(ctx, p.ID)
	if got.Stock != 2 {
		t.Fatalf("expected stock 2, got %d", got.Stock)
	}
}

func TestAdjustStockConcurrent(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo())
	p, _ := svc.CreateProduct(ctx, "Widget", price("1"), 100)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AdjustStock(ctx, p.ID, 1); err != nil {
				t.Errorf("adjust: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := svc.GetProduct(ctx, p.ID)
	if got.Stock != 50 {
		t.Fatalf("expected stock 50 after 50 concurrent decrements, got %d", got.Stock)
	}
}
