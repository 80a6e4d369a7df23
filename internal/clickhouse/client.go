package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/Varun5711/accounts/internal/config"
)

type Client struct {
	conn     driver.Conn
	database string
}

func NewClient(ctx context.Context, cfg config.ClickHouseConfig) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: "default",
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:      10 * time.Second,
		MaxOpenConns:     cfg.MaxConns,
		MaxIdleConns:     cfg.MaxConns / 2,
		ConnMaxLifetime:  time.Hour,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return &Client{conn: conn, database: cfg.Database}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// AccountEvent is one row of <database>.account_events.
type AccountEvent struct {
	EventID    string
	EventType  string
	AccountID  string
	Email      string
	OccurredAt time.Time

	IPAddress string
	Network   string

	UserAgent      string
	Browser        string
	BrowserVersion string
	OS             string
	DeviceType     string
}

// EnsureSchema creates the audit database and table when missing.
func (c *Client) EnsureSchema(ctx context.Context) error {
	if err := c.conn.Exec(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", c.database)); err != nil {
		return fmt.Errorf("failed to create database %s: %w", c.database, err)
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.account_events (
			event_id        String,
			event_type      LowCardinality(String),
			account_id      String,
			email           String,
			occurred_at     DateTime64(3, 'UTC'),
			ip_address      String,
			network         LowCardinality(String),
			user_agent      String,
			browser         LowCardinality(String),
			browser_version String,
			os              LowCardinality(String),
			device_type     LowCardinality(String)
		)
		ENGINE = MergeTree
		PARTITION BY toYYYYMM(occurred_at)
		ORDER BY (event_type, occurred_at, account_id)
	`, c.database)

	if err := c.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create account_events table: %w", err)
	}
	return nil
}

func (c *Client) InsertAccountEvents(ctx context.Context, events []AccountEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := c.conn.PrepareBatch(ctx, fmt.Sprintf(`INSERT INTO %s.account_events (
		event_id, event_type, account_id, email, occurred_at,
		ip_address, network,
		user_agent, browser, browser_version, os, device_type
	)`, c.database))
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, event := range events {
		err := batch.Append(
			event.EventID,
			event.EventType,
			event.AccountID,
			event.Email,
			event.OccurredAt,
			event.IPAddress,
			event.Network,
			event.UserAgent,
			event.Browser,
			event.BrowserVersion,
			event.OS,
			event.DeviceType,
		)
		if err != nil {
			return fmt.Errorf("failed to append event: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	return nil
}

type EventCount struct {
	EventType string
	Count     uint64
}

// CountEventsSince summarises events per type, most frequent first.
func (c *Client) CountEventsSince(ctx context.Context, since time.Time) ([]EventCount, error) {
	query := fmt.Sprintf(`
		SELECT event_type, count() AS total
		FROM %s.account_events
		WHERE occurred_at >= ?
		GROUP BY event_type
		ORDER BY total DESC
	`, c.database)

	rows, err := c.conn.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query event counts: %w", err)
	}
	defer rows.Close()

	var counts []EventCount
	for rows.Next() {
		var ec EventCount
		if err := rows.Scan(&ec.EventType, &ec.Count); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		counts = append(counts, ec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return counts, nil
}
