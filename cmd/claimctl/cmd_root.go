package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teerapatzza/travel-claim/internal/config"
	"github.com/teerapatzza/travel-claim/internal/container"
	"github.com/teerapatzza/travel-claim/pkg/logger"
)

var (
	configPath string
	verbose    bool
	noRouting  bool
)

var rootCmd = &cobra.Command{
	Use:   "claimctl",
	Short: "Travel expense claims from the command line",
	Long: `
claimctl resolves trip distances, computes reimbursement totals and renders
claim documents with the same rules as the claim service.
`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv(config.EnvPrefix+"_CONFIG"), "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level to stderr")
	rootCmd.PersistentFlags().BoolVar(&noRouting, "no-routing", false, "skip the route service and use straight-line distances")
}

// Execute runs the root command
func Execute(v string) {
	rootCmd.Version = v
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies command-line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if noRouting {
		cfg.Routing.Enabled = false
	}
	return cfg, nil
}

// newLogger writes to stderr so stdout stays machine readable
func newLogger() (*zap.Logger, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.New(logger.Config{Level: level, OutputPath: "stderr", Format: "console"})
}

// withContainer starts the application container, runs fn and closes it
func withContainer(ctx context.Context, fn func(app *container.Container) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	app, err := container.NewContainer(cfg.ToContainerConfig(), log)
	if err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	runErr := fn(app)
	if err := app.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
