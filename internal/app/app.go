package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/homescreen/homescreen/internal/config"
	"github.com/homescreen/homescreen/internal/httpserver"
	"github.com/homescreen/homescreen/internal/httpserver/deps"
	"github.com/homescreen/homescreen/internal/logger"
	"github.com/homescreen/homescreen/internal/scheduler"
	"github.com/homescreen/homescreen/internal/store"
	"github.com/homescreen/homescreen/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	store    store.Handle
	importer *scheduler.Importer
}

// New opens the store and wires the HTTP server. Any failure here is a
// startup error: the store is closed and nothing is served.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	log.Debug("configuration loaded", logger.String("config", fmt.Sprintf("%+v", cfg.Redacted())))

	backend, err := store.ParseBackend(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	handle, err := store.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	log.Info("store initialized successfully")

	var importer *scheduler.Importer
	var importTrigger chan struct{}
	if cfg.BookmarkFile != "" {
		log.Info("bookmark file configured, initializing importer",
			logger.String("file", cfg.BookmarkFile),
			logger.Duration("interval", cfg.ImportInterval))
		importTrigger = make(chan struct{}, 1)
		importer = scheduler.NewImporter(
			cfg.BookmarkFile,
			handle,
			log.Named("importer"),
			cfg.ImportInterval,
			importTrigger,
		)
	} else {
		log.Info("bookmark file not configured, import disabled")
	}

	d := deps.Deps{
		Logger:         log,
		Store:          handle,
		Pinger:         handle,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustProxy:     cfg.TrustProxy,
		Backend:        string(backend),
		ReadyTimeout:   cfg.ReadyTimeout,
		RateLimit: deps.RateLimit{
			Burst:        cfg.RateLimit.Burst,
			RefillPerMin: cfg.RateLimit.RefillPerMin,
		},
		ImportTrigger: importTrigger,
	}

	return &App{
		cfg:      cfg,
		logger:   log,
		server:   httpserver.New(cfg, log, d),
		store:    handle,
		importer: importer,
	}, nil
}

// Run serves until SIGINT/SIGTERM or a server error, then shuts down.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("Starting homescreen %s on %s", version.Version, a.server.Addr())
	a.logger.Info(version.String())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.importer != nil {
		if err := a.importer.Start(ctx); err != nil {
			a.closeStore()
			return fmt.Errorf("failed to start bookmark importer: %w", err)
		}
		a.logger.Info("bookmark importer started",
			logger.Duration("interval", a.cfg.ImportInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("Shutting down gracefully...")
	case runErr = <-errCh:
		a.logger.Error("server stopped", logger.Error(runErr))
	}

	if a.importer != nil {
		a.importer.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	a.closeStore()
	if runErr == nil {
		a.logger.Info("homescreen stopped cleanly")
	}
	return runErr
}

func (a *App) closeStore() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", logger.Error(err))
		return
	}
	a.logger.Info("store closed cleanly")
}
