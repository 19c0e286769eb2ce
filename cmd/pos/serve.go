package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	posv1 "github.com/dwikikusuma/pos/api/pos/v1"
	cartgrpc "github.com/dwikikusuma/pos/internal/cart/grpc"
	catalogrpc "github.com/dwikikusuma/pos/internal/catalog/grpc"
	checkoutgrpc "github.com/dwikikusuma/pos/internal/checkout/grpc"
	reportgrpc "github.com/dwikikusuma/pos/internal/report/grpc"
	"github.com/dwikikusuma/pos/pkg/grpcjson"
	"github.com/dwikikusuma/pos/pkg/metrics"
	"github.com/dwikikusuma/pos/pkg/shutdown"
)

const stopTimeout = 10 * time.Second

func serveCmd(configPath *string) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), *configPath, metricsAddr)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "Address of the Prometheus endpoint, empty to disable")
	return cmd
}

func registerServices(srv *grpc.Server, s *services) {
	posv1.RegisterCatalogServiceServer(srv, catalogrpc.NewServer(s.catalog))
	posv1.RegisterCartServiceServer(srv, cartgrpc.NewServer(s.cart))
	posv1.RegisterCheckoutServiceServer(srv, checkoutgrpc.NewServer(s.checkout))
	posv1.RegisterReportServiceServer(srv, reportgrpc.NewServer(s.report))
}

func serve(parent context.Context, configPath, metricsAddr string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	log := newLogger(cfg, "api")

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := shutdown.WithSignals(parent)
	defer cancel()

	svc, err := build(ctx, cfg, log, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer svc.Close()

	n, err := svc.checkout.Reconcile(ctx)
	if err != nil {
		return fmt.Errorf("reconcile pending sales: %w", err)
	}
	if n > 0 {
		log.Warn("rolled back interrupted checkouts", slog.Int("count", n))
	}

	addr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	grpcServer := grpc.NewServer(grpcjson.ServerOption())
	registerServices(grpcServer, svc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("grpc starting", slog.String("addr", addr))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("grpc serve error", slog.Any("err", err))
			cancel()
		}
	}()

	var metricsServer *http.Server
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		metricsServer = &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("metrics starting", slog.String("addr", metricsAddr))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server error", slog.Any("err", err))
			}
		}()
	}

	<-ctx.Done()
	log.Info("shutdown requested")

	if !shutdown.Graceful(stopTimeout, grpcServer.GracefulStop, grpcServer.Stop) {
		log.Warn("graceful stop timeout, forcing stop")
	}
	if metricsServer != nil {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
		defer stopCancel()
		if err := metricsServer.Shutdown(stopCtx); err != nil {
			log.Error("metrics shutdown error", slog.Any("err", err))
		}
	}

	wg.Wait()
	log.Info("bye")
	return nil
}
