package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"plinth/api"
	"plinth/config"
	"plinth/storage"

	"go.uber.org/zap"
)

// App represents the plinth application with all its components.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger

	DB        *storage.SQLite
	APIServer *api.API

	serviceWg  *sync.WaitGroup
	shutdownCh chan struct{}
}

// NewApp is the application factory. It builds and configures a complete
// application instance: logger, configuration (with optional overrides for
// tests), instance directory, database and API server. No network activity
// happens until Start.
func NewApp(ctx context.Context, overrides map[string]any) (*App, error) {
	app := &App{
		serviceWg:  &sync.WaitGroup{},
		shutdownCh: make(chan struct{}),
	}

	logger, sugar, err := InitLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger = logger
	app.Sugar = sugar

	sugar.Info("plinth starting...")

	cfg, err := InitConfig(sugar, overrides)
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	if _, err := EnsureInstanceDir(cfg.GetInstanceDir(), sugar); err != nil {
		return nil, fmt.Errorf("pre-flight check failed: %w", err)
	}

	db, err := storage.NewSQLite(cfg.GetSQLitePath(), sugar)
	if err != nil {
		sugar.Error(ClassifySQLiteError(err, cfg.GetSQLitePath()))
		return nil, fmt.Errorf("failed to initialize SQLite: %w", err)
	}
	app.DB = db

	app.APIServer = api.NewAPI(db, cfg, sugar)

	return app, nil
}

// Start starts the API server. It returns immediately; the server runs
// until Shutdown.
func (a *App) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", a.Config.API.Host, a.Config.API.Port)

	a.serviceWg.Add(1)
	go func() {
		defer a.serviceWg.Done()
		defer func() {
			if r := recover(); r != nil {
				a.Sugar.Errorw("API server panicked", "panic", r)
			}
		}()

		var err error
		if a.Config.API.TLS {
			err = a.APIServer.StartTLS(addr, a.Config.API.CertFile, a.Config.API.KeyFile)
		} else {
			err = a.APIServer.Start(addr)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Sugar.Errorw("API server stopped unexpectedly", "error", err)
		}
	}()

	a.Sugar.Infow("API server listening", "addr", addr, "tls", a.Config.API.TLS)
	return nil
}

// WaitForShutdown blocks until a shutdown signal is received.
func (a *App) WaitForShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
}

// Shutdown gracefully shuts down all components: drain the HTTP server,
// then close the database.
func (a *App) Shutdown() {
	a.Sugar.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.API.ShutdownTimeout)
	defer cancel()

	if a.APIServer != nil {
		if err := a.APIServer.Stop(ctx); err != nil {
			a.Sugar.Errorw("Failed to stop API server cleanly", "error", err)
		}
	}

	a.serviceWg.Wait()

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Sugar.Errorw("Failed to close database", "error", err)
		}
	}

	a.Sugar.Info("Shutdown complete")
	a.Logger.Sync()
}
