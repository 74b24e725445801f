package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/quotebook/internal/config"
	"github.com/garyjia/quotebook/internal/container"
	httpapi "github.com/garyjia/quotebook/internal/interfaces/http"
	"github.com/garyjia/quotebook/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting quotebook",
		zap.String("version", httpapi.Version),
		zap.String("addr", cfg.Server.Addr()),
		zap.String("storage_driver", cfg.Storage.Driver))

	c, err := container.NewContainer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create container", zap.Error(err))
	}
	if err := c.Start(context.Background()); err != nil {
		logger.Fatal("Failed to start container", zap.Error(err))
	}

	svc := c.Services()
	server := httpapi.NewServer(httpapi.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		Mode:         cfg.Server.Mode,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, httpapi.Services{
		Settings:  svc.Settings,
		Quotes:    svc.Quotes,
		Tutorial:  svc.Tutorial,
		Export:    svc.Export,
		Draft:     svc.Draft,
		Workspace: svc.Workspace,
		Health: func(ctx context.Context) (bool, interface{}) {
			h := c.Health(ctx)
			return h.Overall, h.Components
		},
	}, utils.NewKeyValueLogger(logger.Named("http")))

	// Stop on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := server.Start(ctx)
	if serveErr != nil {
		logger.Error("HTTP server failed", zap.Error(serveErr))
	}

	logger.Info("Shutting down...")

	// Flush the open draft before exit
	closeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.Close(closeCtx); err != nil {
		logger.Error("Container shutdown error", zap.Error(err))
	}

	if serveErr != nil {
		os.Exit(1)
	}
	logger.Info("Server exited successfully")
}
