package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func reconcileCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Roll back checkouts interrupted before they were confirmed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			log := newLogger(cfg, "reconcile")

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			svc, err := build(ctx, cfg, log, nil)
			if err != nil {
				return err
			}
			defer svc.Close()

			n, err := svc.checkout.Reconcile(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d pending sale(s)\n", n)
			return nil
		},
	}
}
