// Package app assembles the application: configuration, logging,
// metrics, cache, services, and the HTTP server, with a graceful
// shutdown path.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"povdash/internal/cache"
	"povdash/internal/config"
	"povdash/internal/dataprocessing"
	"povdash/internal/datasource"
	"povdash/internal/exporter"
	"povdash/internal/infrastructure"
	"povdash/internal/services"
	handlers "povdash/internal/transport/http"
)

// Version is the application version, overridable at build time.
var Version = "dev"

// Application is the main application container.
type Application struct {
	Config   *config.Config
	Logger   *slog.Logger
	Router   *chi.Mux
	Server   *http.Server
	Metrics  *infrastructure.Metrics
	Cache    *cache.ResultCache
	Data     *services.DataService
	Analysis *services.AnalysisService
	Models   *services.ModelService

	logCloser io.Closer
}

// New builds the application from configuration with all dependencies
// injected explicitly.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, logCloser, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	slog.SetDefault(logger)

	logger.Info("application starting",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	metrics := infrastructure.NewMetrics()
	resultCache := cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries)

	loader := datasource.NewLoader(logger, datasource.LoaderConfig{
		StartYear: cfg.Data.StartYear,
		EndYear:   cfg.Data.EndYear,
		Seed:      cfg.Data.Seed,
	})
	cleaner := dataprocessing.NewCleaner(logger, dataprocessing.DefaultCleanerConfig())

	dataService := services.NewDataService(loader, cleaner, resultCache, metrics, logger)
	analysisService := services.NewAnalysisService(dataService, resultCache, metrics, logger)
	modelService := services.NewModelService(dataService, resultCache, metrics, logger, cfg.ML)

	csvWriter := exporter.NewCSVWriter(cfg.Export.Dir, logger)
	excelWriter := exporter.NewExcelWriter(cfg.Export.Dir, logger)

	router := handlers.NewRouter(cfg.Server, logger, metrics, handlers.Handlers{
		Analysis: handlers.NewAnalysisHandler(analysisService, logger),
		Models:   handlers.NewModelHandler(modelService, logger),
		Data:     handlers.NewDataHandler(dataService, analysisService, modelService, csvWriter, excelWriter, logger),
		Health:   handlers.NewHealthHandler(dataService, Version),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{
		Config:    cfg,
		Logger:    logger,
		Router:    router,
		Server:    server,
		Metrics:   metrics,
		Cache:     resultCache,
		Data:      dataService,
		Analysis:  analysisService,
		Models:    modelService,
		logCloser: logCloser,
	}, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down",
		slog.Duration("timeout", a.Config.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	a.Close()
	return nil
}

// Close releases background resources. Safe to call after Run.
func (a *Application) Close() {
	a.Cache.Stop()
	if a.logCloser != nil {
		a.logCloser.Close()
	}
}
