// Package audit moves account events from the Redis stream into ClickHouse.
package audit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Varun5711/accounts/internal/clickhouse"
	"github.com/Varun5711/accounts/internal/enrichment"
	"github.com/Varun5711/accounts/internal/events"
	"github.com/Varun5711/accounts/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Sink stores enriched events.
type Sink interface {
	InsertAccountEvents(ctx context.Context, events []clickhouse.AccountEvent) error
}

type Config struct {
	StreamName    string
	ConsumerGroup string
	ConsumerName  string
	BatchSize     int
	PollInterval  time.Duration
	BlockTime     time.Duration
}

// Stream is the subset of the Redis client the consumer needs;
// *redis.Client satisfies it.
type Stream interface {
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
}

type Consumer struct {
	client Stream
	sink   Sink
	cfg    Config
	log    *logger.Logger
}

func NewConsumer(client Stream, sink Sink, cfg Config, log *logger.Logger) *Consumer {
	return &Consumer{
		client: client,
		sink:   sink,
		cfg:    cfg,
		log:    log,
	}
}

// EnsureGroup creates the consumer group (and the stream) if needed.
func (c *Consumer) EnsureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.cfg.StreamName, c.cfg.ConsumerGroup, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// Run reads batches until ctx ends. A batch is acknowledged only after the
// sink accepted it. Entries delivered but never acknowledged stay pending in
// the group; Run replays them first on startup and again after any failed
// batch, before reading new entries.
func (c *Consumer) Run(ctx context.Context) error {
	replay := true
	for {
		if ctx.Err() != nil {
			return nil
		}

		start := ">"
		if replay {
			start = "0"
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.cfg.ConsumerGroup,
			Consumer: c.cfg.ConsumerName,
			Streams:  []string{c.cfg.StreamName, start},
			Count:    int64(c.cfg.BatchSize),
			Block:    c.cfg.BlockTime,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				replay = false
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			c.log.Error("Failed to read from stream: %v", err)
			sleep(ctx, c.cfg.PollInterval)
			continue
		}

		read, failed := 0, false
		for _, stream := range streams {
			read += len(stream.Messages)
			if err := c.handle(ctx, stream.Messages); err != nil {
				c.log.Error("%v", err)
				failed = true
			}
		}

		switch {
		case failed:
			replay = true
			sleep(ctx, c.cfg.PollInterval)
		case replay && read == 0:
			replay = false
		}
	}
}

func (c *Consumer) handle(ctx context.Context, messages []redis.XMessage) error {
	if len(messages) == 0 {
		return nil
	}

	rows, ids := Enrich(messages)
	if skipped := len(messages) - len(rows); skipped > 0 {
		c.log.Warn("Skipping %d malformed stream entries", skipped)
	}

	if len(rows) > 0 {
		if err := c.sink.InsertAccountEvents(ctx, rows); err != nil {
			return fmt.Errorf("failed to store %d events: %w", len(rows), err)
		}
	}

	if err := c.client.XAck(ctx, c.cfg.StreamName, c.cfg.ConsumerGroup, ids...).Err(); err != nil {
		return fmt.Errorf("failed to acknowledge %d messages: %w", len(ids), err)
	}
	c.log.Debug("Stored %d account events", len(rows))
	return nil
}

// Enrich turns stream entries into rows. Entries that are not account
// events produce no row but are still returned for acknowledgement.
func Enrich(messages []redis.XMessage) ([]clickhouse.AccountEvent, []string) {
	rows := make([]clickhouse.AccountEvent, 0, len(messages))
	ids := make([]string, 0, len(messages))

	for _, msg := range messages {
		ids = append(ids, msg.ID)

		event, ok := events.FromStream(msg.Values)
		if !ok {
			continue
		}

		ua := enrichment.ParseUserAgent(event.UserAgent)
		rows = append(rows, clickhouse.AccountEvent{
			EventID:        msg.ID,
			EventType:      string(event.Type),
			AccountID:      event.AccountID,
			Email:          event.Email,
			OccurredAt:     event.Timestamp,
			IPAddress:      event.IP,
			Network:        enrichment.ClassifyIP(event.IP),
			UserAgent:      event.UserAgent,
			Browser:        ua.Browser,
			BrowserVersion: ua.BrowserVersion,
			OS:             ua.OS,
			DeviceType:     ua.DeviceType,
		})
	}

	return rows, ids
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
