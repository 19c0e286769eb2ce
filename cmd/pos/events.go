package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dwikikusuma/pos/pkg/kafka"
	"github.com/dwikikusuma/pos/pkg/shutdown"
)

func eventsCmd(configPath *string) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print sale.recorded events from the Kafka topic",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			log := newLogger(cfg, "events")

			client := kafka.NewClient(cfg.KafkaBrokers)
			if !client.Enabled() {
				return fmt.Errorf("events: %w, set KAFKA_BROKERS", kafka.ErrDisabled)
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, cancel := shutdown.WithSignals(parent)
			defer cancel()

			r := client.NewReader(cfg.KafkaTopic, group)
			defer r.Close()

			log.Info("reading events", slog.String("topic", cfg.KafkaTopic), slog.String("group", group))
			for {
				msg, err := r.ReadMessage(ctx)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return fmt.Errorf("read %s: %w", cfg.KafkaTopic, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", msg.Value)
			}
		},
	}
	cmd.Flags().StringVar(&group, "group", "pos-events", "Kafka consumer group")
	return cmd
}
