package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"

	posv1 "github.com/dwikikusuma/pos/api/pos/v1"
	"github.com/dwikikusuma/pos/pkg/config"
	"github.com/dwikikusuma/pos/pkg/grpcjson"
	"github.com/dwikikusuma/pos/pkg/logger"
	"github.com/dwikikusuma/pos/pkg/metrics"
	"github.com/dwikikusuma/pos/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "gateway",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	root := context.Background()
	ctx, cancel := shutdown.WithSignals(root)
	defer cancel()

	conn, err := grpc.NewClient(cfg.APIAddr, grpcjson.DialOptions()...)
	if err != nil {
		log.Error("grpc client failed", slog.Any("err", err), slog.String("addr", cfg.APIAddr))
		os.Exit(1)
	}
	defer conn.Close()

	gw := newGateway(conn, log)
	handler := gw.routes(metrics.NewServerMetrics(prometheus.DefaultRegisterer, "gateway"))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr), slog.String("api", cfg.APIAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}

func newGateway(cc grpc.ClientConnInterface, log *slog.Logger) *gateway {
	return &gateway{
		catalog:  posv1.NewCatalogServiceClient(cc),
		cart:     posv1.NewCartServiceClient(cc),
		checkout: posv1.NewCheckoutServiceClient(cc),
		report:   posv1.NewReportServiceClient(cc),
		log:      log,
	}
}
