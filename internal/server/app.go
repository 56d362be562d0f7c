// Package server wires the sync server together: storage backend, diary
// service and HTTP transport, with graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/sleepdiary/internal/logging"
	"github.com/dmitrijs2005/sleepdiary/internal/server/config"
	"github.com/dmitrijs2005/sleepdiary/internal/server/httpserver"
	"github.com/dmitrijs2005/sleepdiary/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sleepdiary/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	diaries     *services.DiaryService
}

// NewApp opens the configured storage, runs migrations and builds the
// services. Without a DSN diaries live in memory only.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(logging.ParseLevel(c.LogLevel))

	var rm repomanager.RepositoryManager
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database configured, diaries are kept in memory")
		rm = repomanager.NewInMemoryRepositoryManager()
	} else {
		pg, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = pg
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, err
	}

	ds := services.NewDiaryService(rm, c.CacheSize, c.CacheTTL, services.WithLogger(logger.With("module", "diary_service")))

	return &App{config: c, logger: logger, repomanager: rm, diaries: ds}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpserver.NewHTTPServer(app.config.Addr, app.config.PublicURL, app.config.ShutdownTimeout, app.logger, app.diaries)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a shutdown signal arrives or ctx is cancelled.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "failed to close storage", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
