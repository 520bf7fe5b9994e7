package app

import (
	"context"
	"fmt"

	"stockdash/config"
	"stockdash/internal/dashboard"
	"stockdash/internal/ingest"
	"stockdash/internal/server"
	"stockdash/internal/stock"
	"stockdash/internal/stock/memorystore"
	"stockdash/pkg/storage/postgres"
	"stockdash/pkg/yahoo"

	"go.uber.org/zap"
)

// App holds the wired components of the service.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     stock.Store
	Gateway   *yahoo.RESTClient
	Ingest    *ingest.Service
	Dashboard *dashboard.Service
}

// OpenStore returns the snapshot store selected by storage.driver. The
// Postgres store creates the database if configured and migrates the schema.
func OpenStore(cfg *config.Config, logger *zap.Logger) (stock.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory snapshot store; data is lost on restart")
		return memorystore.NewSnapshotStore(), nil
	case config.DriverPostgres:
		client, err := postgres.InitializeAndMigrateStockRecord(context.Background(), cfg.Postgres, cfg.Log.Environment, cfg.Storage.CreateDatabase)
		if err != nil {
			logger.Error("postgres store unavailable",
				zap.String("environment", cfg.Log.Environment),
				zap.String("ssm_prefix", cfg.Postgres.SSMPrefix),
				zap.Error(err),
			)
			return nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		logger.Info("postgres store ready", zap.String("dbname", cfg.Postgres.DBName))
		return client, nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.Storage.Driver)
	}
}

// New opens the store and wires gateway, ingestion and dashboard.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := OpenStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	gateway := yahoo.NewRESTClient(cfg.Yahoo.BaseURL, cfg.Yahoo.CookieURL, cfg.Yahoo.Timeout, cfg.Yahoo.UserAgent)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Gateway:   gateway,
		Ingest:    ingest.NewService(gateway, store, logger.Named("ingest"), cfg.Ingest.Timeout),
		Dashboard: dashboard.NewService(store),
	}, nil
}

// Serve runs the HTTP server until ctx is cancelled, then drains in-flight
// ingestion tasks and closes the store.
func (a *App) Serve(ctx context.Context) error {
	srv, err := server.New(a.Config.Server, a.Logger.Named("http"), a.Ingest, a.Dashboard, a.Store)
	if err != nil {
		return err
	}

	runErr := srv.Run(ctx)

	drainCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Ingest.Wait(drainCtx); err != nil {
		a.Logger.Warn("ingestion tasks still running at shutdown", zap.Error(err))
	}

	return runErr
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
