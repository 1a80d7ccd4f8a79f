package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/teerapatzza/travel-claim/internal/config"
	"github.com/teerapatzza/travel-claim/internal/container"
	httpapi "github.com/teerapatzza/travel-claim/internal/interfaces/http"
	"github.com/teerapatzza/travel-claim/pkg/logger"
)

func main() {
	configPath := flag.String("config", envOr(config.EnvPrefix+"_CONFIG", "configs/config.yaml"), "path to the YAML configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting travel claim service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("routing", cfg.Routing.Enabled))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := container.NewContainer(cfg.ToContainerConfig(), log)
	if err != nil {
		log.Fatal("Failed to create container", zap.Error(err))
	}
	if err := app.Start(ctx); err != nil {
		log.Fatal("Failed to start container", zap.Error(err))
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error("Container shutdown error", zap.Error(err))
		}
	}()

	server, err := httpapi.NewServer(httpapi.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		CORSOrigins:     cfg.Server.CORSOrigins,
		MaxUploadBytes:  int64(cfg.Receipt.MaxBytes),
	},
		app.ClaimService(),
		app.Catalog(),
		func() (bool, interface{}) {
			h := app.Health()
			return h.Overall, h.Components
		},
		container.NewKVLogger(log),
	)
	if err != nil {
		log.Fatal("Failed to create HTTP server", zap.Error(err))
	}

	// Start blocks until the signal context is cancelled
	if err := server.Start(ctx); err != nil {
		log.Error("HTTP server stopped with error", zap.Error(err))
	}

	log.Info("Server exited successfully")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
