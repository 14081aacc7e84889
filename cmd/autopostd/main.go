package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/elsanchez/autopost/internal/adminapi"
	"github.com/elsanchez/autopost/internal/backendsync"
	"github.com/elsanchez/autopost/internal/config"
	"github.com/elsanchez/autopost/internal/daemon"
	"github.com/elsanchez/autopost/internal/domain"
	"github.com/elsanchez/autopost/internal/logger"
	"github.com/elsanchez/autopost/internal/metrics"
	"github.com/elsanchez/autopost/internal/registry"
	"github.com/elsanchez/autopost/internal/repository/sqlite"
	"github.com/elsanchez/autopost/internal/session"
)

const (
	version = "0.1.0"
)

func main() {
	if err := run(); err != nil {
		slog.Error("autopostd exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.SetupDefault(os.Stderr, logger.ParseLevel(cfg.LogLevel))
	log.Info("autopostd starting", slog.String("version", version))

	// Métricas
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(promRegistry)

	// Inicializar base de datos
	db, err := sqlite.NewDatabase(cfg.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("database initialized", slog.String("path", db.Path()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalog := domain.DefaultCatalog()
	reg := registry.New(ctx, db.KV, catalog, registry.Options{
		Logger:  log,
		Metrics: collector,
	})
	log.Info("registry loaded", slog.Int("accounts", len(reg.Accounts())))

	// Cliente de la API del backend
	apiOpts := adminapi.ClientOptions{
		Token:     cfg.APIToken,
		RateLimit: cfg.APIRate,
		Metrics:   collector,
	}
	if cfg.APIToken == "" {
		apiOpts.TokenSource = session.NewSource(cfg.SessionCookieFile, cfg.SessionBrowser, cfg.SessionCookie, cfg.SessionDomainOrHost())
	}
	api := adminapi.NewClient(cfg.APIURL, &http.Client{Timeout: cfg.APITimeout}, log, apiOpts)

	syncer := backendsync.NewSyncer(backendsync.NewMapper(catalog), reg, log, collector)
	syncManager := daemon.NewSyncManager(api, syncer, db.SyncRunRepo, log)

	scheduler := daemon.NewSyncScheduler(syncManager, cfg.SyncInterval, log)
	scheduler.Start()
	defer scheduler.Stop()

	handlers := daemon.NewHandlers(reg, syncManager, db.SyncRunRepo, cfg.SyncInterval)
	server := daemon.NewServer(cfg.SocketPath, handlers, log)

	if err := server.Start(ctx); err != nil {
		return err
	}
	defer server.Stop()

	// Servidor HTTP de operaciones
	var ops *daemon.OpsServer
	if cfg.MetricsAddr != "" {
		router := daemon.NewOpsRouter(metrics.Handler(promRegistry), func() map[string]interface{} {
			return map[string]interface{}{
				"version":  version,
				"accounts": len(reg.Accounts()),
			}
		})
		ops = daemon.NewOpsServer(cfg.MetricsAddr, router, log)
		ops.Start()
	}

	log.Info("autopostd is ready", slog.String("socket", cfg.SocketPath))

	// Esperar señal de terminación
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info("shutting down gracefully", slog.String("signal", sig.String()))

	if ops != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := ops.Shutdown(shutdownCtx); err != nil {
			log.Warn("ops server shutdown failed", slog.String("error", err.Error()))
		}
	}

	cancel()
	return nil
}
