package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/pos/internal/docstore/memory"
	"github.com/dwikikusuma/pos/internal/sales/app"
	"github.com/dwikikusuma/pos/internal/sales/domain"
	"github.com/dwikikusuma/pos/internal/sales/infra/storage"
)

func items() []domain.SaleItem {
	return []domain.SaleItem{
		{ProductID: "a", Name: "Apple", Price: decimal.NewFromInt(10), Quantity: 2},
		{ProductID: "b", Name: "Bread", Price: decimal.NewFromInt(5), Quantity: 3},
	}
}

func TestNewSale(t *testing.T) {
	svc := app.NewService(storage.NewSaleRepo(memory.New()))

	sale, err := svc.NewSale(items())
	require.NoError(t, err)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(35)), "total %s", sale.Total)
	assert.False(t, sale.Timestamp.IsZero())

	t.Run("rejects empty", func(t *testing.T) {
		_, err := svc.NewSale(nil)
		assert.ErrorIs(t, err, app.ErrInvalidInput)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		bad := items()
		bad[1].Quantity = 0
		_, err := svc.NewSale(bad)
		assert.ErrorIs(t, err, app.ErrInvalidInput)
	})
}

func TestRecordRetriesIDCollision(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(storage.NewSaleRepo(memory.New()))

	ids := []string{"dup00000", "dup00000", "fresh001"}
	svc.SetIDGenerator(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	})

	sale, _ := svc.NewSale(items())
	first, err := svc.Record(ctx, sale, domain.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, "dup00000", first.TransactionID)

	second, err := svc.Record(ctx, sale, domain.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, "fresh001", second.TransactionID)
}

func TestRecordGivesUp(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(storage.NewSaleRepo(memory.New()))
	svc.SetIDGenerator(func() string { return "same0000" })

	sale, _ := svc.NewSale(items())
	_, err := svc.Record(ctx, sale, domain.StatusConfirmed)
	require.NoError(t, err)

	_, err = svc.Record(ctx, sale, domain.StatusConfirmed)
	assert.ErrorIs(t, err, app.ErrIDExhausted)
}

func TestDefaultIDIsShort(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(storage.NewSaleRepo(memory.New()))
	sale, _ := svc.NewSale(items())

	got, err := svc.Record(ctx, sale, domain.StatusConfirmed)
	require.NoError(t, err)
	assert.Len(t, got.TransactionID, 8)
}

func TestPendingLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(storage.NewSaleRepo(memory.New()))
	sale, _ := svc.NewSale(items())

	pending, err := svc.Record(ctx, sale, domain.StatusPending)
	require.NoError(t, err)

	require.NoError(t, svc.MarkApplied(ctx, pending.TransactionID, map[string]int64{"a": 2}))
	list, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, map[string]int64{"a": 2}, list[0].Applied)

	confirmedBefore, _ := svc.ListConfirmed(ctx)
	assert.Empty(t, confirmedBefore)

	require.NoError(t, svc.Confirm(ctx, pending.TransactionID))
	confirmed, err := svc.ListConfirmed(ctx)
	require.NoError(t, err)
	require.Len(t, confirmed, 1)

	t.Run("confirmed sales are immutable", func(t *testing.T) {
		err := svc.Discard(ctx, pending.TransactionID)
		assert.True(t, errors.Is(err, app.ErrImmutable), "got %v", err)
		assert.ErrorIs(t, svc.MarkApplied(ctx, pending.TransactionID, nil), app.ErrImmutable)
		assert.ErrorIs(t, svc.Confirm(ctx, pending.TransactionID), app.ErrImmutable)
	})

	t.Run("discard removes a pending sale", func(t *testing.T) {
		other, err := svc.Record(ctx, sale, domain.StatusPending)
		require.NoError(t, err)
		require.NoError(t, svc.Discard(ctx, other.TransactionID))
		_, err = svc.Get(ctx, other.TransactionID)
		assert.ErrorIs(t, err, app.ErrNotFound)
	})
}

func TestListConfirmedNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := app.NewService(storage.NewSaleRepo(memory.New()))

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := range 3 {
		sale, _ := svc.NewSale(items())
		sale.Timestamp = base.Add(time.Duration(i) * time.Hour)
		_, err := svc.Record(ctx, sale, domain.StatusConfirmed)
		require.NoError(t, err)
	}

	list, err := svc.ListConfirmed(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, list[0].Timestamp.After(list[1].Timestamp))
	assert.True(t, list[1].Timestamp.After(list[2].Timestamp))
}
