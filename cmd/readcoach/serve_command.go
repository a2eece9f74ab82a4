package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/readcoach-ai/readcoach/internal/analysis"
	"github.com/readcoach-ai/readcoach/internal/api"
	"github.com/readcoach-ai/readcoach/internal/config"
	"github.com/readcoach-ai/readcoach/internal/observe"
)

func newServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("config file %q not found — copy configs/example.yaml to get started", configPath)
				}
				return err
			}

			// The config's log level wins over the --log-level flag once the
			// file is loaded.
			slog.SetDefault(newLogger(cfg.Server.LogLevel))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			shutdownMetrics, err := observe.InitProvider(ctx, observe.ProviderConfig{})
			if err != nil {
				return fmt.Errorf("init metrics provider: %w", err)
			}
			defer func() {
				if err := shutdownMetrics(context.Background()); err != nil {
					slog.Warn("metrics provider shutdown", "error", err)
				}
			}()

			analyzer := analysis.New(cfg.Engine.Options()...)
			srv := api.New(cfg.Server.ListenAddr, analyzer, observe.Default())

			slog.Info("readcoach starting",
				"config", configPath,
				"listen_addr", cfg.Server.ListenAddr,
				"log_level", cfg.Server.LogLevel,
			)

			if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("server: %w", err)
			}
			slog.Info("shutdown complete")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML configuration file")

	return cmd
}
