package initializer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/amirasaad/cinema/infra"
	infra_cache "github.com/amirasaad/cinema/infra/cache"
	infra_eventbus "github.com/amirasaad/cinema/infra/eventbus"
	"github.com/amirasaad/cinema/infra/observability"
	"github.com/amirasaad/cinema/infra/provider/cloudinarymedia"
	"github.com/amirasaad/cinema/infra/provider/gcsmedia"
	"github.com/amirasaad/cinema/infra/provider/mockmedia"
	"github.com/amirasaad/cinema/pkg/app"
	"github.com/amirasaad/cinema/pkg/cache"
	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/eventbus"
	"github.com/amirasaad/cinema/pkg/provider/media"
)

// Media drivers selectable with MEDIA_DRIVER.
const (
	MediaDriverCloudinary = "cloudinary"
	MediaDriverGCS        = "gcs"
	MediaDriverMock       = "mock"
)

// Shutdown releases what InitializeDependencies opened.
type Shutdown func(ctx context.Context) error

// InitializeDependencies initializes all the application dependencies
func InitializeDependencies(ctx context.Context, cfg *config.App) (
	deps *app.Deps,
	shutdown Shutdown,
	err error,
) {
	deps = &app.Deps{}
	logger := SetupLogger(cfg.Log)
	deps.Logger = logger

	var closers []func(context.Context) error
	closeAll := func(ctx context.Context) error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i](ctx))
		}
		return errors.Join(errs...)
	}
	defer func() {
		if err != nil {
			_ = closeAll(ctx)
		}
	}()

	stopTracing, err := observability.InitTracing(ctx, cfg.Otel, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	closers = append(closers, stopTracing)
	observability.InitMetrics()
	deps.OnTransition = func(status string) {
		observability.TransactionTransitions.WithLabelValues(status).Inc()
	}

	// Initialize database
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, nil, err
	}
	closers = append(closers, func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
	if cfg.DB.AutoMigrate {
		if err := infra.RunMigrations(db, logger); err != nil {
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Initialize unit of work
	deps.Uow = infra.NewUoW(db)

	m, closeMedia, err := NewMedia(ctx, cfg.Media, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize media provider: %w", err)
	}
	closers = append(closers, closeMedia)
	deps.Media = observability.InstrumentMedia(m, cfg.Media.Timeout)

	denylist, closeDenylist, err := NewTokenDenylist(ctx, cfg.Redis, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create token denylist: %w", err)
	}
	closers = append(closers, closeDenylist)
	deps.Denylist = denylist

	bus, closeBus, err := NewEventBus(cfg.Kafka, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create event bus: %w", err)
	}
	closers = append(closers, closeBus)
	deps.EventBus = bus

	return deps, closeAll, nil
}

func noClose(context.Context) error { return nil }

func closeWith(c io.Closer) func(context.Context) error {
	return func(context.Context) error { return c.Close() }
}

// NewMedia builds the media provider named by cfg.Driver.
func NewMedia(ctx context.Context, cfg *config.Media, logger *slog.Logger) (media.Media, func(context.Context) error, error) {
	switch cfg.Driver {
	case MediaDriverCloudinary:
		p, err := cloudinarymedia.New(cfg.Cloudinary, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using Cloudinary media provider", "cloud", cfg.Cloudinary.CloudName)
		return p, noClose, nil
	case MediaDriverGCS:
		p, err := gcsmedia.New(ctx, cfg.GCS, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using GCS media provider", "bucket", cfg.GCS.Bucket)
		return p, closeWith(p), nil
	case MediaDriverMock, "":
		logger.Warn("Using in-memory media provider; uploads are lost on restart")
		return mockmedia.New(), noClose, nil
	}
	return nil, nil, fmt.Errorf("unknown media driver %q", cfg.Driver)
}

// NewTokenDenylist uses Redis when cfg.URL is set and memory otherwise.
func NewTokenDenylist(ctx context.Context, cfg *config.Redis, logger *slog.Logger) (cache.TokenDenylist, func(context.Context) error, error) {
	if cfg == nil || cfg.URL == "" {
		logger.Info("Using in-memory token denylist")
		return infra_cache.NewMemoryTokenDenylist(), noClose, nil
	}
	d, err := infra_cache.NewRedisTokenDenylist(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Using Redis token denylist")
	return d, closeWith(d), nil
}

// NewEventBus uses Kafka when cfg.Brokers is set and memory otherwise.
func NewEventBus(cfg *config.Kafka, logger *slog.Logger) (eventbus.Bus, func(context.Context) error, error) {
	if cfg == nil || cfg.Brokers == "" {
		return infra_eventbus.NewWithMemory(logger), noClose, nil
	}
	bus, err := infra_eventbus.NewWithKafka(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Using Kafka event bus", "brokers", cfg.Brokers)
	return bus, closeWith(bus), nil
}
