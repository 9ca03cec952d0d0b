package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alem-hub/course-registration/config"
	"github.com/alem-hub/course-registration/internal/application/command"
	"github.com/alem-hub/course-registration/internal/domain/registration"
	"github.com/alem-hub/course-registration/internal/domain/shared"
	"github.com/alem-hub/course-registration/internal/infrastructure/messaging"
	"github.com/alem-hub/course-registration/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/course-registration/internal/infrastructure/persistence/redis"
	"github.com/alem-hub/course-registration/internal/seed"
	"github.com/alem-hub/course-registration/pkg/circuitbreaker"
	"github.com/alem-hub/course-registration/pkg/logger"
	"github.com/alem-hub/course-registration/pkg/retry"
)

// eventBus is satisfied by both the in-memory and the Redis bus.
type eventBus interface {
	shared.EventBus
	Close() error
	Metrics() *messaging.EventBusMetrics
}

func setupEventBus(ctx context.Context, cfg *config.Config, log *slog.Logger) (eventBus, error) {
	local := messaging.DefaultInMemoryEventBusConfig()
	local.Logger = log.With(logger.Component("event_bus"))
	local.EnableMetrics = cfg.Features.IsEnabled(config.FeatureEventMetrics)

	if !cfg.Features.IsEnabled(config.FeatureRedisFanout) {
		return messaging.NewInMemoryEventBus(local), nil
	}

	var client *redis.PubSub
	err := retry.Do(ctx, func(ctx context.Context) error {
		c, err := redis.NewPubSub(ctx, redis.Config{
			URL:         cfg.Redis.URL,
			Host:        cfg.Redis.Host,
			Port:        cfg.Redis.Port,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			PoolSize:    2,
			DialTimeout: cfg.Redis.DialTimeout,
		})
		if errors.Is(err, redis.ErrInvalidURL) {
			return retry.Permanent(err)
		}
		client = c
		return err
	}, retry.WithOnRetry(logRetry(log, "redis")))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	bus, err := messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
		Client:         client,
		ChannelName:    cfg.Redis.Channel,
		LocalBusConfig: local,
		Logger:         log.With(logger.Component("redis_bus")),
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to start redis event bus: %w", err)
	}

	log.Info("redis fan-out enabled", "channel", cfg.Redis.Channel, "instance_id", bus.InstanceID())
	return bus, nil
}

func setupAuditJournal(ctx context.Context, cfg *config.Config, bus shared.EventSubscriber, log *slog.Logger) (func(), error) {
	pgCfg := postgres.DefaultConfig()
	pgCfg.URL = cfg.Database.URL
	pgCfg.MaxConns = int32(cfg.Database.MaxConns)
	pgCfg.ConnectTimeout = cfg.Database.ConnectTimeout

	if _, err := pgCfg.PoolConfig(); err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}

	var conn *postgres.Connection
	err := retry.Do(ctx, func(ctx context.Context) error {
		c, err := postgres.NewConnection(ctx, pgCfg)
		conn = c
		return err
	}, retry.WithOnRetry(logRetry(log, "postgres")))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	journalLog := log.With(logger.Component("audit_journal"))
	breaker := circuitbreaker.New(circuitbreaker.Config{
		Name:             "audit_journal",
		FailureThreshold: 3,
		Cooldown:         30 * time.Second,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			journalLog.Warn("circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})
	journal := postgres.NewAuditJournal(conn, cfg.Database.QueryTimeout, journalLog).WithBreaker(breaker)
	if err := bus.SubscribeAll(journal.Record); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe audit journal: %w", err)
	}

	log.Info("audit journal enabled")
	return conn.Close, nil
}

func logRetry(log *slog.Logger, target string) func(int, error, time.Duration) {
	return func(attempt int, err error, delay time.Duration) {
		log.Warn("connection attempt failed",
			"target", target, "attempt", attempt, "retry_in", delay, logger.Err(err))
	}
}

// seedRegistry imports the configured catalog file, or the sample catalog
// when no file is set and samples are enabled.
func seedRegistry(
	ctx context.Context,
	cfg *config.Config,
	registry *registration.Registry,
	bus shared.EventPublisher,
) error {
	log := logger.FromContext(ctx)

	var (
		catalog seed.Catalog
		source  string
	)

	switch {
	case cfg.Catalog.Path != "":
		loaded, err := seed.LoadFile(cfg.Catalog.Path)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		catalog, source = loaded, cfg.Catalog.Path
	case cfg.Features.IsEnabled(config.FeatureSampleCatalog):
		catalog, source = seed.Sample(), "built-in sample"
	default:
		log.Warn("no catalog configured; starting with an empty registry")
		return nil
	}

	_, err := command.NewImportCatalogHandler(registry, bus, log).
		Handle(ctx, command.ImportCatalogCommand{Catalog: catalog, Source: source})
	if err != nil {
		// Partial imports keep the valid entries.
		log.Warn("catalog import skipped entries", logger.Err(err))
	}
	return nil
}

func enabledFeatures(cfg *config.Config) []string {
	var out []string
	for _, name := range cfg.Features.Names() {
		if cfg.Features.IsEnabled(name) {
			out = append(out, name)
		}
	}
	return out
}
