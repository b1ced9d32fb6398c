package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/krople/gpsmapp/internal/config"
	"github.com/krople/gpsmapp/internal/geocoding"
	"github.com/krople/gpsmapp/internal/mapview"
	"github.com/krople/gpsmapp/internal/metrics"
	"github.com/krople/gpsmapp/internal/repository"
	"github.com/krople/gpsmapp/internal/service"
	"github.com/krople/gpsmapp/internal/widget"
	"github.com/prometheus/client_golang/prometheus"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// googleRateLimit is the request budget per second shared by the Google clients.
const googleRateLimit = 50

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// backend is an opened location and memory store.
type backend struct {
	repo   repository.Interface
	pinger Pinger
	close  func()
}

// app holds the wired components shared by the commands.
type app struct {
	cfg        *config.Config
	log        *slog.Logger
	zone       *time.Location
	store      *backend
	widget     *widget.StaticMap
	reconciler *mapview.Reconciler
	session    *mapview.Session
	locations  *service.LocationService
	memories   *service.MemoryService
}

// openBackend connects to the configured store and makes sure its schema exists.
func openBackend(ctx context.Context, cfg *config.Config, log *slog.Logger) (*backend, error) {
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := repository.NewDatabase(ctx,
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to DB: %w", err)
		}

		repo := repository.NewRepository(pool, log)
		if err = repo.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}

		return &backend{repo: repo, pinger: pool, close: pool.Close}, nil
	case config.StoreSQLite:
		db, err := repository.NewLocalDatabase(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}

		closeDB := func() {
			if sqlDB, errDB := db.DB(); errDB == nil {
				_ = sqlDB.Close()
			}
		}
		repo := repository.NewLocalRepository(db, log)

		return &backend{repo: repo, pinger: repo, close: closeDB}, nil
	default:
		return nil, fmt.Errorf("unsupported store: %s", cfg.Store)
	}
}

// newApp loads the configuration and wires the store, the map session and the services.
func newApp(ctx context.Context, reg prometheus.Registerer) (*app, error) {
	cfg := config.MustLoad()
	logger := setupLogger(cfg.Env)

	store, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	zone, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		store.close()
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Timezone, err)
	}

	workers := max(cfg.Workers, 1)

	// Create the reverse geocoding provider using factory pattern based on configuration.
	resolver, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.ProviderType),
		APIKey:    cfg.APIKey,
		RateLimit: googleRateLimit / workers,
		Logger:    logger,
	})
	if err != nil {
		store.close()
		return nil, fmt.Errorf("failed to create geocoding provider: %w", err)
	}
	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.ProviderType, "enabled", resolver != nil)

	var staticClient widget.StaticMapClient
	if cfg.MapsKey != "" {
		client, errClient := geocoding.NewGoogleClient(cfg.MapsKey, googleRateLimit)
		if errClient != nil {
			store.close()
			return nil, fmt.Errorf("failed to create static maps client: %w", errClient)
		}
		staticClient = client
	}
	mapWidget := widget.NewStaticMap(staticClient, cfg.Map.Width, cfg.Map.Height, logger)

	addresses := service.NewAddressCache()
	reconciler := mapview.NewReconciler(mapview.Options{
		Frame: mapview.Frame{
			Width:   cfg.Map.Width,
			Height:  cfg.Map.Height,
			Padding: cfg.Map.Padding,
			MinZoom: mapview.DefaultMinZoom,
			MaxZoom: cfg.Map.MaxZoom,
		},
		SingleZoom: cfg.Map.SingleZoom,
		Location:   zone,
		Address:    addresses.Lookup,
	})

	opts := []mapview.SessionOption{mapview.WithLogger(logger)}
	if cfg.Incremental {
		opts = append(opts, mapview.WithIncremental())
	}
	session := mapview.NewSession(mapWidget, reconciler, mapview.Viewport{}, opts...)

	locations := service.NewLocationService(
		logger,
		store.repo,
		session,
		resolver,
		cfg.ProviderType, // Provider name for metrics
		addresses,
		metrics.NewMetrics(reg),
		workers,
		cfg.Interval,
		cfg.HistoryLimit,
	)

	return &app{
		cfg:        cfg,
		log:        logger,
		zone:       zone,
		store:      store,
		widget:     mapWidget,
		reconciler: reconciler,
		session:    session,
		locations:  locations,
		memories:   service.NewMemoryService(logger, store.repo, reconciler),
	}, nil
}

// Close disposes the map session and closes the store.
func (a *app) Close() {
	a.session.Dispose()
	a.store.close()
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}

func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}

	return a
}
