// Command worker consumes the domain events relayed from the outbox and keeps
// the redis product read model in step with PostgreSQL.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/mrpcapacity/pkg/cache"
	"github.com/ghuser/mrpcapacity/pkg/config"
	"github.com/ghuser/mrpcapacity/pkg/events"
	"github.com/ghuser/mrpcapacity/pkg/logger"
	"github.com/ghuser/mrpcapacity/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg).With("process", "worker")
	if err := run(cfg, log); err != nil {
		log.Error("worker exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("sentry disabled", "error", err)
	}
	defer telemetry.SentryFlush()

	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close() //nolint:errcheck

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		return fmt.Errorf("open event bus: %w", err)
	}

	group, err := registerSubscribers(ctx, eventBus, subscriptions(cache.NewProductCache(redisClient), log), log)
	if err != nil {
		_ = eventBus.Close()
		return err
	}

	<-ctx.Done()
	log.Info("draining subscribers")

	// Closing the bus closes every subscription channel, which ends the group.
	closeErr := eventBus.Close()
	_ = group.Wait()
	if closeErr != nil {
		return fmt.Errorf("close event bus: %w", closeErr)
	}
	return nil
}
