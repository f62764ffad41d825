// Command cyclerental runs the cycle rental service: the HTTP API, the token sweeper, and the Kafka event relay.
//
// Two maintenance subcommands help operators bootstrap an installation:
//
//	cyclerental actor -id G1 -role guard [-status active]   stores an actor in the identity database
//	cyclerental token -id G1 -role guard [-ttl 12h]         prints a signed bearer token for the actor
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore/oteladapters"
	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore/postgresengine"
	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore/promadapters"
	"github.com/AntonStoeckl/cyclerental-dcb-go/eventstore/zapadapters"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/housekeeping"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/httpapi"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/identity"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/shell/config"
)

const (
	serviceName     = "cyclerental"
	shutdownTimeout = 10 * time.Second
	readTimeout     = 5 * time.Second
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "cyclerental: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if len(args) > 0 {
		switch args[0] {
		case "actor":
			return runPutActor(cfg, args[1:])
		case "token":
			return runIssueToken(cfg, args[1:])
		default:
			return fmt.Errorf("unknown subcommand %q", args[0])
		}
	}

	return serve(cfg)
}

func serve(cfg config.Config) error { //nolint:funlen
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zapLogger, err := newZapLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = zapLogger.Sync() }()

	logger := zapadapters.NewLogger(zapLogger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	tracerProvider := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tracerProvider)
	defer func() { _ = tracerProvider.Shutdown(context.Background()) }()

	obs := observability{
		logger:  logger,
		metrics: promadapters.NewMetricsCollector(registry),
		tracing: oteladapters.NewTracingCollector(otel.Tracer(serviceName)),
	}

	eventStore, closeDB, err := newEventStore(ctx, cfg, obs)
	if err != nil {
		return err
	}
	defer closeDB()

	if err = eventStore.CreateSchema(ctx); err != nil {
		return fmt.Errorf("creating the event store schema: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = redisClient.Close() }()
	}

	directory, err := identity.OpenBoltDirectory(cfg.IdentityDBPath)
	if err != nil {
		return fmt.Errorf("opening the identity database: %w", err)
	}
	defer func() { _ = directory.Close() }()

	var identityProvider shell.IdentityProvider = directory
	if redisClient != nil {
		identityProvider, err = identity.NewRedisCache(
			redisClient,
			directory,
			identity.WithTTL(cfg.IdentityCacheTTL),
			identity.WithLogger(logger),
		)
		if err != nil {
			return err
		}
	}

	handlers, err := buildHandlers(eventStore, identityProvider, cfg, obs)
	if err != nil {
		return err
	}

	api, err := httpapi.NewServer(handlers, cfg.JWTSecret, httpapi.WithGatherer(registry), httpapi.WithLogger(logger))
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: readTimeout,
	}

	sweeper, err := housekeeping.NewTokenSweeper(
		eventStore,
		housekeeping.WithSweepInterval(cfg.SweepInterval),
		housekeeping.WithSweepGrace(cfg.SweepGrace),
		housekeeping.WithSweeperLogger(logger),
	)
	if err != nil {
		return err
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("cyclerental: listening", "addr", cfg.HTTPAddr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	group.Go(func() error { return sweeper.Run(groupCtx) })

	if cfg.KafkaBrokers != "" {
		relay, writer, err := newEventRelay(eventStore, redisClient, cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = writer.Close() }()

		group.Go(func() error { return relay.Run(groupCtx) })
	}

	err = group.Wait()
	logger.Info("cyclerental: stopped")

	return err
}

func newZapLogger(level string) (*zap.Logger, error) {
	zapLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Join(config.ErrInvalidValue, err)
	}

	return zapadapters.NewJSONLogger(zapLevel), nil
}

// newEventStore connects the pgx pools and builds the postgres engine, the returned func closes the pools.
func newEventStore(ctx context.Context, cfg config.Config, obs observability) (*postgresengine.EventStore, func(), error) {
	pool, err := newPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	options := []postgresengine.Option{
		postgresengine.WithTableName(cfg.TableName),
		postgresengine.WithLockTimeout(cfg.LockTimeout),
		postgresengine.WithLockKeyFields(core.IdentityFields()...),
		postgresengine.WithLogger(obs.logger),
		postgresengine.WithContextualLogger(obs.logger),
		postgresengine.WithMetrics(obs.metrics),
		postgresengine.WithTracing(obs.tracing),
	}

	if cfg.ReplicaURL == "" {
		eventStore, err := postgresengine.NewEventStoreFromPGXPool(pool, options...)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		return eventStore, pool.Close, nil
	}

	replica, err := newPool(ctx, cfg.ReplicaURL)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	closePools := func() {
		replica.Close()
		pool.Close()
	}

	eventStore, err := postgresengine.NewEventStoreFromPGXPoolAndReplica(pool, replica, options...)
	if err != nil {
		closePools()
		return nil, nil, err
	}

	return eventStore, closePools, nil
}

func newPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := config.PostgresPGXPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	return pool, nil
}

// newEventRelay keeps the relay cursor in Redis when it is configured, otherwise a restart relays from the beginning.
func newEventRelay(
	eventStore shell.QueriesEvents,
	redisClient *redis.Client,
	cfg config.Config,
	logger shell.Logger,
) (*housekeeping.EventRelay, *kafka.Writer, error) {

	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(cfg.KafkaBrokers, ",")...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}

	var cursor housekeeping.Cursor = housekeeping.NewMemoryCursor()
	if redisClient != nil {
		cursor = housekeeping.NewRedisCursor(redisClient, "")
	}

	relay, err := housekeeping.NewEventRelay(
		eventStore,
		writer,
		cursor,
		housekeeping.WithRelayInterval(cfg.RelayInterval),
		housekeeping.WithRelayLogger(logger),
	)
	if err != nil {
		_ = writer.Close()
		return nil, nil, err
	}

	return relay, writer, nil
}
