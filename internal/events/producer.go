package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher records account events. Publishing is best effort: callers log
// failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, event *AccountEvent) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *AccountEvent) error { return nil }

// Producer appends events to a Redis stream read by the audit worker.
type Producer struct {
	client     *redis.Client
	streamName string
}

func NewProducer(client *redis.Client, streamName string) *Producer {
	return &Producer{
		client:     client,
		streamName: streamName,
	}
}

func (p *Producer) Publish(ctx context.Context, event *AccountEvent) error {
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.streamName,
		Values: event.fields(),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

func (p *Producer) StreamLength(ctx context.Context) (int64, error) {
	return p.client.XLen(ctx, p.streamName).Result()
}

// StreamInfo is the events stream summary shown on the health endpoint.
type StreamInfo struct {
	Stream string `json:"stream"`
	Length int64  `json:"length"`
	Error  string `json:"error,omitempty"`
}

func (p *Producer) Info(ctx context.Context) StreamInfo {
	info := StreamInfo{Stream: p.streamName}
	n, err := p.StreamLength(ctx)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Length = n
	return info
}
