package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/pos/pkg/config"
	"github.com/dwikikusuma/pos/pkg/logger"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "pos version "+Version+"\n", out.String())
}

func TestExportRequiresRange(t *testing.T) {
	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"export", "--start", "2024-01-01"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end")
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store_driver: sqlite\n"), 0o600))

	_, err := loadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite")
}

func TestBuildWiresMemoryStore(t *testing.T) {
	ctx := context.Background()
	cfg := config.Load()
	cfg.StoreDriver = "memory"
	cfg.EventsDriver = "none"
	cfg.ReportTZ = "UTC"

	svc, err := build(ctx, cfg, logger.Discard(), nil)
	require.NoError(t, err)
	defer svc.Close()

	p, err := svc.catalog.CreateProduct(ctx, "Apple", decimal.NewFromInt(10), 5)
	require.NoError(t, err)

	session, err := svc.cart.StartSession(ctx)
	require.NoError(t, err)
	_, err = svc.cart.AddItem(ctx, session, p.ID, 2)
	require.NoError(t, err)

	sale, err := svc.checkout.Checkout(ctx, session)
	require.NoError(t, err)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(20)))

	var csvOut strings.Builder
	rows, err := svc.report.ExportCSV(ctx, &csvOut, "2000-01-01", "2999-12-31")
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	n, err := svc.checkout.Reconcile(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
