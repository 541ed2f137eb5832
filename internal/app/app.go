// Package app wires the warehouse, the analytics engine and the HTTP server
// into a runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/karasolutions/telegram-medical-analytics/internal/analytics"
	"github.com/karasolutions/telegram-medical-analytics/internal/api"
	"github.com/karasolutions/telegram-medical-analytics/internal/config"
	"github.com/karasolutions/telegram-medical-analytics/internal/warehouse"
)

// App holds the assembled service.
type App struct {
	cfg    *config.Config
	logger *zerolog.Logger
	db     *warehouse.DB
	server *http.Server
}

// New connects to the warehouse and assembles the service.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	poolOpts := warehouse.PoolOptions{
		MaxConns:          cfg.DBMaxConnections,
		MinConns:          cfg.DBMinConnections,
		MaxConnIdleTime:   cfg.DBMaxConnIdleTime,
		MaxConnLifetime:   cfg.DBMaxConnLifetime,
		HealthCheckPeriod: cfg.DBHealthCheckPeriod,
	}

	db, err := warehouse.NewWithOptions(ctx, cfg.DSN(), cfg.MartsSchema, poolOpts, logger)
	if err != nil {
		return nil, fmt.Errorf("connect warehouse: %w", err)
	}

	engine := analytics.New(db, logger)

	server := api.NewServer(engine, logger, cfg.RateLimitRPS, cfg.RateLimitBurst)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      server.Router(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		db:     db,
		server: httpServer,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)

	go func() {
		a.logger.Info().Int("port", a.cfg.HTTPPort).Msg("starting analytics API")

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		a.db.Close()

		return err
	case <-ctx.Done():
	}

	a.logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPShutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)

	a.db.Close()

	return err
}
