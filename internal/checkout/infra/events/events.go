// Package events publishes sale.recorded notifications after a checkout commits.
package events

import (
	"context"
	"log/slog"

	"github.com/dwikikusuma/pos/pkg/contracts"
	"github.com/dwikikusuma/pos/pkg/kafka"
	"github.com/dwikikusuma/pos/pkg/rabbitmq"
)

type KafkaPublisher struct {
	writer kafka.MessageWriter
}

func NewKafkaPublisher(w kafka.MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// PublishSaleRecorded keys messages by transaction id so one sale stays on one partition.
func (p *KafkaPublisher) PublishSaleRecorded(ctx context.Context, e contracts.SaleRecorded) error {
	return kafka.PublishJSON(ctx, p.writer, e.TransactionID, e.Envelope())
}

type RabbitPublisher struct {
	ch       rabbitmq.Channel
	exchange string
}

func NewRabbitPublisher(ch rabbitmq.Channel, exchange string) *RabbitPublisher {
	return &RabbitPublisher{ch: ch, exchange: exchange}
}

func (p *RabbitPublisher) PublishSaleRecorded(ctx context.Context, e contracts.SaleRecorded) error {
	return rabbitmq.PublishJSON(ctx, p.ch, p.exchange, contracts.EventSaleRecorded, e.Envelope())
}

// LogPublisher writes events to the structured log; used when no broker is configured.
type LogPublisher struct {
	log *slog.Logger
}

func NewLogPublisher(log *slog.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) PublishSaleRecorded(ctx context.Context, e contracts.SaleRecorded) error {
	p.log.InfoContext(ctx, contracts.EventSaleRecorded,
		slog.String("event_id", e.EventID),
		slog.String("transaction_id", e.TransactionID),
		slog.String("total", e.Total),
		slog.Int("items", len(e.Items)),
	)
	return nil
}
