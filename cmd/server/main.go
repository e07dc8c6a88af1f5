package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirasaad/cinema/infra/initializer"
	"github.com/amirasaad/cinema/pkg/app"
	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/webapi"
	log "github.com/charmbracelet/log"
)

const shutdownTimeout = 10 * time.Second

// @title Cinema Online API
// @version 1.0.0
// @description Online cinema backend: accounts, film catalog and bank-transfer purchases.
// @contact.name API Support
// @license.name MIT
// @host localhost:3000
// @BasePath /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description "Enter your Bearer token in the format: `Bearer {token}`"
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	// Initialize all dependencies
	deps, shutdown, err := initializer.InitializeDependencies(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	logger := deps.Logger

	// Create the application and mount it on Fiber
	fiberApp := webapi.SetupApp(app.New(deps, cfg))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)

	errCh := make(chan error, 1)
	go func() { errCh <- fiberApp.Listen(addr) }()

	select {
	case err = <-errCh:
	case <-ctx.Done():
		logger.Info("Shutting down server")
		err = fiberApp.ShutdownWithTimeout(shutdownTimeout)
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if cerr := shutdown(closeCtx); cerr != nil {
		slog.Error("Failed to release dependencies", "error", cerr)
		err = errors.Join(err, cerr)
	}
	return err
}
