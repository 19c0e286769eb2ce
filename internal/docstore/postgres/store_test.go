package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/pos/internal/docstore"
	pg "github.com/dwikikusuma/pos/pkg/postgres"
)

// openTestStore connects to POS_TEST_DATABASE_URL or skips the test.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("POS_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("POS_TEST_DATABASE_URL not set, skipping postgres integration test")
	}
	ctx := context.Background()
	pool, err := pg.Open(ctx, pg.Config{URL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s := New(pool)
	require.NoError(t, s.EnsureSchema(ctx))
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	collection := "test_" + uuid.NewString()

	id, err := s.Add(ctx, collection, docstore.Fields{"name": "Tea", "stock": 4})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, collection, id, docstore.Fields{"stock": 2}))

	doc, err := s.Get(ctx, collection, id)
	require.NoError(t, err)
	assert.Equal(t, "Tea", doc.Fields["name"])
	assert.Equal(t, float64(2), doc.Fields["stock"])

	docs, err := s.StreamAll(ctx, collection)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	require.NoError(t, s.Delete(ctx, collection, id))
	assert.ErrorIs(t, s.Delete(ctx, collection, id), docstore.ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, collection, id, docstore.Fields{"x": 1}), docstore.ErrNotFound)
}

func TestStoreRunInTxRollback(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	collection := "test_" + uuid.NewString()

	require.NoError(t, s.Set(ctx, collection, "p1", docstore.Fields{"stock": 5}))

	boom := errors.New("boom")
	err := s.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.Get(ctx, collection, "p1"); err != nil {
			return err
		}
		if err := s.Update(ctx, collection, "p1", docstore.Fields{"stock": 0}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	doc, err := s.Get(ctx, collection, "p1")
	require.NoError(t, err)
	assert.Equal(t, float64(5), doc.Fields["stock"])
}
