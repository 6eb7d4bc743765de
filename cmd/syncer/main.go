package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/MichalMitros/pod-sync/cmd/syncer/config"
	"github.com/MichalMitros/pod-sync/internal/api"
	"github.com/MichalMitros/pod-sync/internal/dispatcher"
	"github.com/MichalMitros/pod-sync/internal/handler"
	"github.com/MichalMitros/pod-sync/internal/platform/rabbitmq"
	"github.com/MichalMitros/pod-sync/internal/platform/storage"
	"github.com/MichalMitros/pod-sync/internal/provider"
	"github.com/MichalMitros/pod-sync/internal/provider/registry"
	"github.com/MichalMitros/pod-sync/internal/reconciler"
	"github.com/MichalMitros/pod-sync/internal/scheduler"
	"github.com/MichalMitros/pod-sync/internal/syncer"
	"github.com/MichalMitros/pod-sync/internal/taskqueue"
	_ "github.com/lib/pq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	// UserAgent is user agent header value used in requests to providers' APIs.
	UserAgent = "pod-sync/0.1.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't parse log level")
	}
	logger = logger.Level(level)

	amqpConnection, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open RabbitMQ connection")
	}

	conn, err := rabbitmq.NewRabbitMQ(amqpConnection, cfg.RabbitMQ.Exchange, rabbitmq.WithPrefetch(cfg.RabbitMQ.Prefetch))
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open RabbitMQ channel")
	}

	if err := conn.Declare(cfg.RabbitMQ.Queue, cfg.RabbitMQ.RoutingKey); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't declare RabbitMQ queue")
	}

	pgDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't open Postgres connection")
	}

	store := storage.NewPostgres(pgDB, storage.WithBatchSize(cfg.BatchSize), storage.WithRunTimeout(cfg.RunTimeout))

	catalogSyncer := syncer.NewSyncer(
		store,
		reconciler.NewReconciler(),
		&logger,
		syncer.WithPageSize(cfg.PageSize),
		syncer.WithCheckpointTTL(cfg.CheckpointTTL),
	)

	adapters := registry.NewRegistry(
		store,
		provider.Config{
			Client:    &http.Client{Timeout: cfg.HTTPTimeout},
			UserAgent: UserAgent,
			PageSize:  cfg.PageSize,
			Syncer:    catalogSyncer,
			Logger:    &logger,
		},
		&logger,
		registry.WithLimits(cfg.Limits.ProviderLimits()),
	)

	queue := taskqueue.NewQueue(
		store,
		dispatcher.NewDispatcher(adapters, store, conn, &logger),
		&logger,
		taskqueue.WithWorkers(cfg.Workers),
	)

	if err := queue.Restore(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't restore tasks")
	}

	sched, err := scheduler.NewScheduler(cfg.SyncSchedule, store, queue, &logger)
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't create scheduler")
	}

	webhooks := handler.NewWebhooks(store, queue, &logger)
	han := handler.NewHandler(conn, queue, webhooks, &logger)

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewAPI(queue, store, adapters, webhooks, &logger,
			api.WithRateLimit(cfg.APIRateLimit, cfg.APIRateLimitBurst),
		).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errGroup, egCtx := errgroup.WithContext(ctx)

	// start consuming and handling messages
	if err := han.Start(egCtx, cfg.RabbitMQ.Queue); err != nil {
		logger.Fatal().
			Err(err).
			Msg("can't start consuming")
	}

	errGroup.Go(func() error {
		return queue.Run(egCtx)
	})

	errGroup.Go(func() error {
		return sched.Run(egCtx)
	})

	errGroup.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	errGroup.Go(func() error {
		<-egCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	logger.Info().Str("addr", cfg.HTTPAddr).Msg("pod sync up and running")

	// handle graceful shutdown and context cancellation
	<-egCtx.Done()

	logger.Info().Msg("graceful shutdown start")

	if err := errGroup.Wait(); err != nil {
		logger.Error().
			Err(err).
			Msg("service stopped with error")
	}

	// wait for consumer to finish
	<-conn.Done()

	// close connections
	wg := sync.WaitGroup{}
	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := pgDB.Close(); err != nil {
			logger.Error().
				Err(err).
				Msg("can't close Postgres connection")
		}
	}()

	go func() {
		defer wg.Done()
		if err := amqpConnection.Close(); err != nil {
			logger.Error().
				Err(err).
				Msg("can't close RabbitMQ connection")
		}
	}()

	wg.Wait()

	logger.Info().Msg("graceful shutdown successful")
}
