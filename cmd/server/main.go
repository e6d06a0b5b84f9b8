package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/KevinKickass/PanelSchema/internal/api/rest"
	"github.com/KevinKickass/PanelSchema/internal/config"
	"github.com/KevinKickass/PanelSchema/internal/logging"
	"github.com/KevinKickass/PanelSchema/internal/pipeline"
	"github.com/KevinKickass/PanelSchema/internal/schema"
)

func main() {
	configPath := pflag.StringP("config", "c", os.Getenv("PANEL_CONFIG"), "path to config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Config loaded successfully", zap.String("path", *configPath))

	validator, err := schema.NewValidator()
	if err != nil {
		logger.Fatal("Failed to compile panel schema", zap.Error(err))
	}

	engine := pipeline.NewEngine(validator, pipeline.Options{
		Production:  cfg.Engine.Production,
		Parallelism: cfg.Engine.Parallelism,
	}, logger)

	server := rest.NewServer(cfg, engine, logger)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	logger.Info("Panel schema server started", zap.Bool("production", cfg.Engine.Production))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Panel schema server stopped")
}
