package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/lojaonline/backend/pkg/config"
	"github.com/lojaonline/backend/pkg/db"
	"github.com/lojaonline/backend/pkg/logger"
	"github.com/lojaonline/backend/pkg/migrate"
	"github.com/lojaonline/backend/pkg/outbox"
	"github.com/lojaonline/backend/pkg/pubsub"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "outbox-publisher"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "outbox-publisher",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	dispatcher, cleanup, err := buildDispatcher(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create dispatcher", err)
		os.Exit(1)
	}
	defer cleanup()

	service, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logg,
		DB:         dbClient,
		Repository: outbox.NewRepository(dbClient.DB()),
		Dispatcher: dispatcher,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox publisher", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env": cfg.App.Env,
	})
	logg.Info(ctx, "starting outbox publisher")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "outbox publisher stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "outbox publisher shutting down gracefully")
}

// buildDispatcher picks the delivery target: Pub/Sub when a project and
// domain topic are configured, the structured log stream otherwise.
func buildDispatcher(ctx context.Context, cfg *config.Config, logg *logger.Logger) (Dispatcher, func(), error) {
	noop := func() {}

	if cfg.GCP.ProjectID == "" || cfg.PubSub.DomainTopic == "" {
		dispatcher, err := NewLogDispatcher(logg)
		return dispatcher, noop, err
	}

	client, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		return nil, noop, err
	}
	cleanup := func() {
		if closeErr := client.Close(); closeErr != nil {
			logg.Error(context.Background(), "error closing pubsub client", closeErr)
		}
	}

	dispatcher, err := NewPubSubDispatcher(client.DomainPublisher())
	if err != nil {
		cleanup()
		return nil, noop, err
	}
	return dispatcher, cleanup, nil
}
