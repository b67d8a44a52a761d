package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"

	"github.com/sydlexius/tonearm/internal/api"
	"github.com/sydlexius/tonearm/internal/cache"
	"github.com/sydlexius/tonearm/internal/catalog"
	"github.com/sydlexius/tonearm/internal/config"
	"github.com/sydlexius/tonearm/internal/database"
	"github.com/sydlexius/tonearm/internal/encyclopedia"
	"github.com/sydlexius/tonearm/internal/logging"
	"github.com/sydlexius/tonearm/internal/reranker"
	"github.com/sydlexius/tonearm/internal/resolve"
	"github.com/sydlexius/tonearm/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	configPath := os.Getenv("TA_CONFIG_PATH")
	if configPath == "" {
		configPath = "/data/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logManager, logger := logging.NewManager(cfg.Logging)
	defer logManager.Close() //nolint:errcheck
	slog.SetDefault(logger)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("closing database", "error", err)
		}
	}()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("database ready", slog.String("path", cfg.Database.Path))

	store := cache.NewStore(db, logger)

	cat := newCatalogClient(cfg, logger)
	enc := newEncyclopediaClient(cfg, logger)

	var rer resolve.Reranker = nopReranker{}
	if cfg.Reranker.Enabled {
		rer = reranker.New(cfg.Reranker.Model, logger)
	}

	resolver := resolve.New(cat, enc, rer, store, cfg.Resolver, logger)

	logger.Info("starting tonearm",
		slog.String("version", version.Version),
		slog.String("commit", version.Commit),
	)

	router := api.NewRouter(api.RouterDeps{
		Resolver:   resolver,
		LogManager: logManager,
		Logger:     logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Surface an unreachable catalog at startup instead of on the first
	// query. Degraded is still serveable, so a failure only warns.
	checkCtx, cancelCheck := context.WithTimeout(ctx, 10*time.Second)
	if err := cat.TestConnection(checkCtx); err != nil {
		logger.Warn("catalog connectivity check failed", "error", err)
	}
	cancelCheck()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Re-apply logging settings when the config file changes on disk.
	go watchConfig(ctx, configPath, logManager, logger)

	// Expired cache entries accumulate between queries; sweep hourly.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := store.Sweep(ctx); err != nil {
					logger.Error("cache sweep failed", "error", err)
				}
			}
		}
	}()

	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func newCatalogClient(cfg *config.Config, logger *slog.Logger) *catalog.Client {
	if cfg.Catalog.BaseURL != "" {
		return catalog.NewWithBaseURL(cfg.Catalog.RequestsPerSecond, logger, cfg.Catalog.BaseURL)
	}
	return catalog.New(cfg.Catalog.RequestsPerSecond, logger)
}

func newEncyclopediaClient(cfg *config.Config, logger *slog.Logger) *encyclopedia.Client {
	if cfg.Encyclopedia.BaseURL != "" {
		return encyclopedia.NewWithBaseURL(logger, cfg.Encyclopedia.BaseURL)
	}
	return encyclopedia.New(logger)
}

// nopReranker stands in when the external judgment service is disabled;
// the pipeline treats an empty ranking as "no opinion".
type nopReranker struct{}

func (nopReranker) Rerank(context.Context, string, []reranker.Candidate) ([]string, error) {
	return nil, nil
}

// watchConfig reloads the logging section when the config file is written.
// Watching the directory rather than the file survives editors and orchestrators
// that replace the file instead of writing in place.
func watchConfig(ctx context.Context, path string, manager *logging.Manager, logger *slog.Logger) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("config watch unavailable", "error", err)
		return
	}
	defer watcher.Close() //nolint:errcheck

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		logger.Warn("config watch unavailable", slog.String("dir", dir), slog.Any("error", err))
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Name != path || !event.Op.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			cfg, err := config.Load(path)
			if err != nil {
				logger.Warn("config reload failed", "error", err)
				continue
			}
			manager.Reconfigure(cfg.Logging)
			logger.Info("logging reconfigured",
				slog.String("level", cfg.Logging.Level),
				slog.String("format", cfg.Logging.Format))
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("config watch error", "error", err)
		}
	}
}
