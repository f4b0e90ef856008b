package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	// PostgreSQL Driver
	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/jupiterclapton/social-service/config"
	"github.com/jupiterclapton/social-service/internal/adapters/secondary/eventbroker"
	"github.com/jupiterclapton/social-service/internal/adapters/secondary/repository"
	"github.com/jupiterclapton/social-service/internal/adapters/secondary/repository/sqlite"
	"github.com/jupiterclapton/social-service/internal/core/ports"
)

// openStore renvoie le backend choisi par DB_DRIVER et sa fonction de fermeture.
func openStore(ctx context.Context, cfg *config.Config, migrate bool) (ports.Store, func(), error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		if migrate {
			if err := sqlite.RunMigrations(ctx, db); err != nil {
				_ = sqlDB.Close()
				return nil, nil, fmt.Errorf("sqlite migrations: %w", err)
			}
		}
		slog.Info("✅ SQLite ready", "path", cfg.SQLitePath)
		return sqlite.NewRepository(db), func() { _ = sqlDB.Close() }, nil

	default:
		dbConfig, err := pgxpool.ParseConfig(cfg.DBUrl)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to parse DB config: %w", err)
		}
		// Tracer OpenTelemetry sur chaque requête SQL
		dbConfig.ConnConfig.Tracer = otelpgx.NewTracer()

		pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to connect to database: %w", err)
		}
		// Fail fast
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("database ping failed: %w", err)
		}
		if migrate {
			if err := repository.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		slog.Info("✅ Database connected")
		return repository.NewPostgresRepo(pool), pool.Close, nil
	}
}

// connectRedis renvoie nil si Redis est désactivé ou injoignable : cache et rate limiting sont optionnels.
func connectRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisotel.InstrumentTracing(rdb); err != nil {
		slog.Warn("Redis tracing disabled", "error", err)
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("Redis unreachable, cache and rate limiting disabled", "addr", cfg.RedisAddr, "error", err)
		_ = rdb.Close()
		return nil
	}
	slog.Info("✅ Connected to Redis")
	return rdb
}

// connectNats renvoie nil si NATS est désactivé ou injoignable : les événements sont best effort.
func connectNats(ctx context.Context, cfg *config.Config) *eventbroker.NatsBroker {
	if cfg.NatsUrl == "" {
		return nil
	}

	broker, err := eventbroker.NewNatsBroker(ctx, cfg.NatsUrl)
	if err != nil {
		slog.Warn("NATS unavailable, ledger events disabled", "error", err)
		return nil
	}
	slog.Info("✅ NATS JetStream connected")
	return broker
}

func initLogger(cfg *config.Config) {
	var handler slog.Handler
	if cfg.Env == "local" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}

func initTracer(ctx context.Context, cfg *config.Config) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OtelEndpoint),
		otlptracegrpc.WithInsecure(), // En prod, gérez le TLS
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String("1.0.0"),
			semconv.DeploymentEnvironmentKey.String(cfg.Env),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}
