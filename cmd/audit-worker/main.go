package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Varun5711/accounts/internal/audit"
	"github.com/Varun5711/accounts/internal/clickhouse"
	"github.com/Varun5711/accounts/internal/config"
	"github.com/Varun5711/accounts/internal/logger"
	"github.com/Varun5711/accounts/internal/redis"
	"golang.org/x/sync/errgroup"
)

func main() {
	log := logger.New("audit-worker")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}
	if !cfg.Redis.Enabled() {
		log.Fatal("REDIS_ADDR must be set for the audit worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	chClient, err := clickhouse.NewClient(ctx, cfg.ClickHouse)
	if err != nil {
		log.Fatal("Failed to connect to ClickHouse: %v", err)
	}
	defer chClient.Close()

	if err := chClient.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to prepare ClickHouse schema: %v", err)
	}

	consumer := audit.NewConsumer(redisClient.Redis(), chClient, audit.Config{
		StreamName:    cfg.Events.StreamName,
		ConsumerGroup: cfg.Audit.ConsumerGroup,
		ConsumerName:  cfg.Audit.ConsumerName,
		BatchSize:     cfg.Audit.BatchSize,
		PollInterval:  cfg.Audit.PollInterval,
		BlockTime:     cfg.Audit.BlockTime,
	}, log)

	if err := consumer.EnsureGroup(ctx); err != nil {
		log.Fatal("Failed to create consumer group: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Processing account events from %s", cfg.Events.StreamName)
		return consumer.Run(gctx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				logSummary(gctx, log, chClient)
			}
		}
	})

	if err := g.Wait(); err != nil {
		log.Error("Audit worker error: %v", err)
	}
	log.Info("Shutting down")
}

func logSummary(ctx context.Context, log *logger.Logger, ch *clickhouse.Client) {
	counts, err := ch.CountEventsSince(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		log.Warn("Failed to summarise audit events: %v", err)
		return
	}
	for _, c := range counts {
		log.Info("Last hour: %s x%d", c.EventType, c.Count)
	}
}
