package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DBManager owns the primary pool and any read replicas. Writes and
// uniqueness checks always go to the primary.
type DBManager struct {
	primary      *pgxpool.Pool
	replicas     []*pgxpool.Pool
	replicaIndex uint32
}

type Config struct {
	PrimaryDSN  string
	ReplicaDSNs []string

	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

func (c Config) apply(pc *pgxpool.Config) {
	pc.MaxConns = c.MaxConns
	pc.MinConns = c.MinConns
	pc.MaxConnLifetime = c.MaxConnLifetime
	pc.MaxConnIdleTime = c.MaxConnIdleTime
}

// openPool connects and pings, so a bad DSN fails at startup rather than on
// the first request.
func openPool(ctx context.Context, role, dsn string, cfg Config) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s DSN: %w", role, err)
	}
	cfg.apply(pc)

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", role, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", role, err)
	}
	return pool, nil
}

func NewDBManager(ctx context.Context, cfg Config) (*DBManager, error) {
	primary, err := openPool(ctx, "primary", cfg.PrimaryDSN, cfg)
	if err != nil {
		return nil, err
	}

	m := &DBManager{primary: primary}
	for i, dsn := range cfg.ReplicaDSNs {
		if dsn == "" {
			continue
		}
		replica, err := openPool(ctx, fmt.Sprintf("replica %d", i), dsn, cfg)
		if err != nil {
			m.Close()
			return nil, err
		}
		m.replicas = append(m.replicas, replica)
	}
	return m, nil
}

func (m *DBManager) Ping(ctx context.Context) error {
	return m.primary.Ping(ctx)
}

func (m *DBManager) Write() *pgxpool.Pool {
	return m.primary
}

// Read round-robins across replicas, falling back to the primary.
func (m *DBManager) Read() *pgxpool.Pool {
	if len(m.replicas) == 0 {
		return m.primary
	}
	idx := atomic.AddUint32(&m.replicaIndex, 1) % uint32(len(m.replicas))
	return m.replicas[idx]
}

func (m *DBManager) Close() {
	if m.primary != nil {
		m.primary.Close()
	}
	for _, pool := range m.replicas {
		pool.Close()
	}
}

type PoolStats struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
}

func statsOf(pool *pgxpool.Pool) PoolStats {
	s := pool.Stat()
	return PoolStats{
		TotalConns:    s.TotalConns(),
		IdleConns:     s.IdleConns(),
		AcquiredConns: s.AcquiredConns(),
	}
}

// Stats is reported as a detail of the health endpoint.
func (m *DBManager) Stats() map[string]interface{} {
	replicas := make([]PoolStats, len(m.replicas))
	for i, pool := range m.replicas {
		replicas[i] = statsOf(pool)
	}
	return map[string]interface{}{
		"primary":  statsOf(m.primary),
		"replicas": replicas,
	}
}
