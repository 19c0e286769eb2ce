package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	cartapp "github.com/dwikikusuma/pos/internal/cart/app"
	cartadapter "github.com/dwikikusuma/pos/internal/cart/infra/adapter"
	cartmemory "github.com/dwikikusuma/pos/internal/cart/infra/memory"
	catalogapp "github.com/dwikikusuma/pos/internal/catalog/app"
	catalogstorage "github.com/dwikikusuma/pos/internal/catalog/infra/storage"
	checkoutapp "github.com/dwikikusuma/pos/internal/checkout/app"
	checkoutadapter "github.com/dwikikusuma/pos/internal/checkout/infra/adapter"
	"github.com/dwikikusuma/pos/internal/checkout/infra/events"
	"github.com/dwikikusuma/pos/internal/docstore"
	"github.com/dwikikusuma/pos/internal/docstore/memory"
	"github.com/dwikikusuma/pos/internal/docstore/natskv"
	pgstore "github.com/dwikikusuma/pos/internal/docstore/postgres"
	redisstore "github.com/dwikikusuma/pos/internal/docstore/redis"
	reportapp "github.com/dwikikusuma/pos/internal/report/app"
	salesapp "github.com/dwikikusuma/pos/internal/sales/app"
	salesstorage "github.com/dwikikusuma/pos/internal/sales/infra/storage"
	"github.com/dwikikusuma/pos/pkg/config"
	"github.com/dwikikusuma/pos/pkg/kafka"
	"github.com/dwikikusuma/pos/pkg/logger"
	"github.com/dwikikusuma/pos/pkg/metrics"
	"github.com/dwikikusuma/pos/pkg/postgres"
	"github.com/dwikikusuma/pos/pkg/rabbitmq"
)

const storePrefix = "pos"

type services struct {
	catalog  *catalogapp.Service
	cart     *cartapp.Service
	sales    *salesapp.Service
	checkout *checkoutapp.Service
	report   *reportapp.Service

	closers []func()
}

func (s *services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.Config, service string) *slog.Logger {
	return logger.New(logger.Options{Service: service, Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})
}

// build wires every bounded context over the configured store.
// reg may be nil when the caller exposes no metrics.
func build(ctx context.Context, cfg config.Config, log *slog.Logger, reg prometheus.Registerer) (*services, error) {
	s := &services{}

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, closeStore)

	loc, err := cfg.Location()
	if err != nil {
		s.Close()
		return nil, err
	}

	// Catalog
	s.catalog = catalogapp.NewService(catalogstorage.NewProductRepo(store))

	// Cart
	s.cart = cartapp.NewService(cartmemory.NewSessionStore(), cartadapter.NewCatalogServiceReader(s.catalog))

	// Sales
	s.sales = salesapp.NewService(salesstorage.NewSaleRepo(store))

	// Checkout
	publisher, closeEvents, err := openEvents(cfg, log)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.closers = append(s.closers, closeEvents)

	opts := []checkoutapp.Option{checkoutapp.WithEvents(publisher), checkoutapp.WithLogger(log)}
	if tx, ok := store.(docstore.Transactional); ok {
		opts = append(opts, checkoutapp.WithTx(tx))
	}
	if reg != nil {
		opts = append(opts, checkoutapp.WithMetrics(metrics.NewCheckoutMetrics(reg)))
	}
	s.checkout = checkoutapp.NewService(
		checkoutadapter.NewCartServiceReader(s.cart),
		checkoutadapter.NewCatalogService(s.catalog),
		s.sales,
		cfg.CheckoutMaxConcurrent,
		opts...,
	)

	// Reporting
	s.report = reportapp.NewService(s.catalog, s.sales, loc)

	return s, nil
}

func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (docstore.Gateway, func(), error) {
	log.Info("opening store", slog.String("driver", cfg.StoreDriver))

	switch cfg.StoreDriver {
	case "postgres":
		pool, err := postgres.Open(ctx, postgres.Config{URL: cfg.DatabaseURL})
		if err != nil {
			return nil, nil, err
		}
		store := pgstore.New(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil

	case "redis":
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		return redisstore.New(client, storePrefix), func() { client.Close() }, nil

	case "nats":
		nc, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect nats %s: %w", cfg.NATSURL, err)
		}
		js, err := jetstream.New(nc)
		if err != nil {
			nc.Close()
			return nil, nil, fmt.Errorf("jetstream: %w", err)
		}
		return natskv.New(js, storePrefix), nc.Close, nil
	}

	return memory.New(), func() {}, nil
}

func openEvents(cfg config.Config, log *slog.Logger) (checkoutapp.EventPublisher, func(), error) {
	switch cfg.EventsDriver {
	case "kafka":
		w, err := kafka.NewClient(cfg.KafkaBrokers).NewWriter(cfg.KafkaTopic)
		if err != nil {
			return nil, nil, err
		}
		closeWriter := func() {
			if err := w.Close(); err != nil {
				log.Warn("kafka writer close", slog.Any("err", err))
			}
		}
		return events.NewKafkaPublisher(w), closeWriter, nil

	case "rabbitmq":
		conn, ch, err := rabbitmq.SetupConn(cfg.AMQPURL, cfg.AMQPExchange, log)
		if err != nil {
			return nil, nil, err
		}
		closeConn := func() {
			ch.Close()
			conn.Close()
		}
		return events.NewRabbitPublisher(ch, cfg.AMQPExchange), closeConn, nil

	case "none":
		return nil, func() {}, nil
	}

	return events.NewLogPublisher(log), func() {}, nil
}
