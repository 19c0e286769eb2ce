package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	msgs []kafka.Message
}

func (w *captureWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestNewClientParsesBrokers(t *testing.T) {
	c := NewClient(" a:9092, ,b:9092 ")
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.Brokers)
	assert.True(t, c.Enabled())

	empty := NewClient("")
	assert.False(t, empty.Enabled())
	_, err := empty.NewWriter("sales")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestNewWriter(t *testing.T) {
	w, err := NewClient("localhost:9092").NewWriter("pos.sales")
	require.NoError(t, err)
	assert.Equal(t, "pos.sales", w.Topic)
}

func TestPublishJSON(t *testing.T) {
	w := &captureWriter{}
	require.NoError(t, PublishJSON(context.Background(), w, "k1", map[string]any{"total": "6.00"}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("k1"), w.msgs[0].Key)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "6.00", got["total"])
	assert.False(t, w.msgs[0].Time.IsZero())
}
