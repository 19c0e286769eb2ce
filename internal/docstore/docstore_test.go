package docstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap("get", "products", "p1", nil))
	})

	t.Run("not found is not wrapped", func(t *testing.T) {
		err := Wrap("get", "products", "p1", ErrNotFound)
		assert.Same(t, ErrNotFound, err)
	})

	t.Run("backend error becomes PersistenceError", func(t *testing.T) {
		cause := errors.New("quota exceeded")
		err := Wrap("set", "sales", "t1", cause)

		var pe *PersistenceError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "set", pe.Op)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "docstore set sales/t1: quota exceeded", err.Error())
	})

	t.Run("already wrapped is kept", func(t *testing.T) {
		first := Wrap("set", "sales", "t1", errors.New("x"))
		assert.Same(t, first, Wrap("update", "sales", "t1", first))
	})
}

func TestEncodeDecode(t *testing.T) {
	type doc struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}

	f, err := Encode(doc{Name: "Tea", Price: 1.5})
	require.NoError(t, err)
	assert.Equal(t, Fields{"name": "Tea", "price": 1.5}, f)

	var out doc
	require.NoError(t, Decode(f, &out))
	assert.Equal(t, doc{Name: "Tea", Price: 1.5}, out)
}

func TestMerge(t *testing.T) {
	base := Fields{"name": "Tea", "stock": 3.0}
	merged := Merge(base, Fields{"stock": 1.0})

	assert.Equal(t, Fields{"name": "Tea", "stock": 1.0}, merged)
	assert.Equal(t, 3.0, base["stock"], "base is not modified")
}
