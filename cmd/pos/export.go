package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const defaultExportFile = "sales_report.csv"

func exportCmd(configPath *string) *cobra.Command {
	var start, end, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the sales of a date range as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			log := newLogger(cfg, "export")

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			svc, err := build(ctx, cfg, log, nil)
			if err != nil {
				return err
			}
			defer svc.Close()

			var w io.Writer = cmd.OutOrStdout()
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			rows, err := svc.report.ExportCSV(ctx, w, start, end)
			if err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d row(s) to %s\n", rows, out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "First day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "Last day, YYYY-MM-DD")
	cmd.Flags().StringVarP(&out, "out", "o", defaultExportFile, "Output file, - for stdout")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
