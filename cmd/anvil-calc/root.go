package main

import (
	"fmt"
	"io"

	"github.com/iwvelando/anvil-calc/internal/config"
	"github.com/iwvelando/anvil-calc/internal/database"
	"github.com/iwvelando/anvil-calc/internal/store"
	"github.com/iwvelando/anvil-calc/pkg/constants"
	"github.com/iwvelando/anvil-calc/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the state shared by every command once the root command has
// loaded the configuration.
type app struct {
	configPath   string
	logLevel     string
	outputFormat string

	conf   *config.Configuration
	logger *zap.Logger
	format string
}

func newRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "anvil-calc",
		Short: "Forge sequence solver and alloy batch planner",
		Long: `anvil-calc finds the shortest forge sequence for an anvil target and
plans alloy batches whose ingot split keeps every component in range.

Examples:
  anvil-calc forge --target 25 --finish hit,hit,hit
  anvil-calc alloy plan --component Copper:88:92 --component Tin:8:12 --total 46
  anvil-calc results list --folder root
  anvil-calc serve --server-config server-config.yaml`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "",
		"path to configuration file (default: ./"+constants.DefaultConfigFile+" when present)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "",
		"log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&a.outputFormat, "output-format", "",
		"output format override: pretty, csv, json, yaml")

	rootCmd.AddCommand(newActionsCommand(a))
	rootCmd.AddCommand(newForgeCommand(a))
	rootCmd.AddCommand(newAlloyCommand(a))
	rootCmd.AddCommand(newResultsCommand(a))
	rootCmd.AddCommand(newFoldersCommand(a))
	rootCmd.AddCommand(newServeCommand(a))

	return rootCmd
}

func (a *app) setup() error {
	conf, err := config.LoadConfiguration(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	a.conf = conf

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	// Determine output format (CLI override takes precedence over config)
	a.format = conf.Output.Format
	if a.outputFormat != "" {
		a.format = a.outputFormat
	}
	if a.format == "" {
		a.format = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(a.format); err != nil {
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		a.logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.setup"),
		)
	}
	return nil
}

// openRepository connects to the configured database. The returned close
// function releases the connection.
func (a *app) openRepository() (*store.Repository, func(), error) {
	db, err := database.Open(&a.conf.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	closeDB := func() {
		if err := database.Close(db); err != nil {
			a.logger.Warn("failed to close database",
				zap.String("op", "main.openRepository"),
				zap.Error(err),
			)
		}
	}
	return store.NewRepository(db, a.logger), closeDB, nil
}

// withRepository runs fn against an open repository.
func (a *app) withRepository(fn func(repo *store.Repository) error) error {
	repo, closeDB, err := a.openRepository()
	if err != nil {
		return err
	}
	defer closeDB()
	return fn(repo)
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
