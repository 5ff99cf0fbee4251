package main

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/iwvelando/anvil-calc/internal/config"
	"github.com/iwvelando/anvil-calc/internal/server"
	"github.com/iwvelando/anvil-calc/internal/store"
	"github.com/iwvelando/anvil-calc/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand(a *app) *cobra.Command {
	var (
		serverConfigPath string
		noStore          bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			serverCfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}

			// Server logging settings override the application's when set.
			logger := a.logger
			if overrides := serverCfg.Logging; overrides != (config.LoggingConfig{}) {
				logger, err = initializeLogger(mergeLogging(a.conf.Logging, overrides), a.logLevel)
				if err != nil {
					return fmt.Errorf("failed to initialize server logger: %w", err)
				}
				defer func() { _ = logger.Sync() }()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, a, serverCfg, logger, !noStore)
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "serve without a database; saving and result endpoints answer 503")
	return cmd
}

func runServer(ctx context.Context, a *app, cfg *server.Config, logger *zap.Logger, withStore bool) error {
	var repo *store.Repository
	if withStore {
		r, closeDB, err := a.openRepository()
		if err != nil {
			return err
		}
		defer closeDB()
		repo = r
	}
	handler := server.NewHandler(logger, cfg, repo, version)

	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Address, err)
	}
	return server.Serve(ctx, ln, handler, logger)
}

// mergeLogging overlays the non-empty server logging settings on base.
func mergeLogging(base, overrides config.LoggingConfig) config.LoggingConfig {
	if overrides.Level != "" {
		base.Level = overrides.Level
	}
	if overrides.Format != "" {
		base.Format = overrides.Format
	}
	if overrides.OutputFile != "" {
		base.OutputFile = overrides.OutputFile
	}
	return base
}
