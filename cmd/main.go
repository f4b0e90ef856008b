package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"

	// Interne
	"github.com/jupiterclapton/social-service/config"
	httpadapter "github.com/jupiterclapton/social-service/internal/adapters/primary/http"
	"github.com/jupiterclapton/social-service/internal/adapters/secondary/cache"
	"github.com/jupiterclapton/social-service/internal/adapters/secondary/security"
	"github.com/jupiterclapton/social-service/internal/core/ports"
	"github.com/jupiterclapton/social-service/internal/core/services"
)

func main() {
	root := &cli.Command{
		Name:  "social-service",
		Usage: "Relationship ledger and identity HTTP API",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			return runServer(ctx, true)
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run HTTP server",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "migrate", Value: true, Usage: "apply pending migrations before serving"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runServer(ctx, c.Bool("migrate"))
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations and exit",
		Action: func(ctx context.Context, _ *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			initLogger(cfg)

			_, closeStore, err := openStore(ctx, cfg, true)
			if err != nil {
				return err
			}
			closeStore()

			slog.Info("✅ Migrations applied", "driver", cfg.DBDriver)
			return nil
		},
	}
}

func runServer(ctx context.Context, migrate bool) error {
	// 1. Charger la Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Logger
	initLogger(cfg)
	slog.Info("🚀 Starting Social Service", "env", cfg.Env, "port", cfg.HTTPPort, "driver", cfg.DBDriver)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// 3. Télémétrie (Tracing)
	tp, err := initTracer(ctx, cfg)
	if err != nil {
		slog.Error("Failed to init tracer", "error", err)
	} else {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				slog.Error("Error shutting down tracer", "error", err)
			}
		}()
	}

	// 4. Infrastructure : Base de données
	store, closeStore, err := openStore(ctx, cfg, migrate)
	if err != nil {
		return err
	}
	defer closeStore()

	// 5. Infrastructure : Redis (optionnel)
	var (
		entityCache ports.EntityCache
		limiter     httpadapter.Limiter
	)
	if rdb := connectRedis(ctx, cfg); rdb != nil {
		defer rdb.Close()
		entityCache = cache.NewRedisCache(rdb, cfg.CacheTTL)
		limiter = cache.NewRateLimiter(rdb, int64(cfg.RateLimitPerMinute), time.Minute)
	}

	// 6. Infrastructure : Event Broker (optionnel)
	var publisher ports.EventPublisher
	if broker := connectNats(ctx, cfg); broker != nil {
		defer broker.Close()
		publisher = broker
	}

	// 7. Wiring (Injection de dépendances) - Adapters -> Services
	ledgerService := services.NewLedgerService(store, entityCache, publisher)
	identityService := services.NewIdentityService(
		store,
		security.NewArgon2Hasher(),
		security.NewJWTProvider(),
		[]byte(cfg.JWTSecret),
		cfg.JWTExpiration,
	)
	contentService := services.NewContentService(store, store, entityCache)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := httpadapter.NewRouter(ledgerService, identityService, contentService, httpadapter.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Limiter:        limiter,
		Registry:       reg,
	})

	// 8. Démarrage Graceful
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("📡 HTTP server listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("⚠️  Signal received, shutting down...", "signal", sig)
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("⏳ Timeout reached, forcing server stop", "error", err)
		_ = srv.Close()
	}

	slog.Info("👋 Service stopped")
	return nil
}
