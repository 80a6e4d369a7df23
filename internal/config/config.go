package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingJWTSecret is returned by Load when JWT_SECRET is not set.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set")

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	Hashing    HashingConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Events     EventsConfig
	Audit      AuditConfig
	ClickHouse ClickHouseConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port            string
	HealthGRPCPort  string
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	OpenAPIPath     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	// Driver is "postgres" or "memory".
	Driver string

	// PrimaryDSN overrides the discrete connection fields when set.
	PrimaryDSN      string
	ReplicaDSNs     []string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	RunMigrations   bool
}

type AuthConfig struct {
	JWTSecret        string
	TokenTTL         time.Duration
	BcryptCost       int
	EnforceOwnership bool
}

type HashingConfig struct {
	Workers   int
	QueueSize int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type CacheConfig struct {
	Enabled    bool
	L1Capacity int
	L1TTL      time.Duration
	L2TTL      time.Duration
}

type EventsConfig struct {
	StreamName  string
	LockTTL     time.Duration
	LockWait    time.Duration
	PublishWait time.Duration
}

type AuditConfig struct {
	ConsumerGroup string
	ConsumerName  string
	BatchSize     int
	PollInterval  time.Duration
	BlockTime     time.Duration
}

type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
	MaxConns int
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	// Load .env if it exists (local dev), ignore if not (K8s uses ConfigMaps/Secrets)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "3000"),
			HealthGRPCPort:  getEnv("HEALTH_GRPC_PORT", "50060"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			CORSOrigins:     getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			OpenAPIPath:     getEnv("OPENAPI_PATH", ""),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "accounts"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			Driver:          strings.ToLower(getEnv("STORE_DRIVER", "postgres")),
			PrimaryDSN:      getEnv("DB_PRIMARY_DSN", ""),
			ReplicaDSNs:     getEnvAsList("DB_REPLICA_DSNS", nil),
			MaxConns:        int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:        int32(getEnvAsInt("DB_MIN_CONNS", 2)),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", time.Hour),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
			RunMigrations:   getEnvAsBool("DB_RUN_MIGRATIONS", true),
		},
		Auth: AuthConfig{
			JWTSecret:        os.Getenv("JWT_SECRET"),
			TokenTTL:         time.Hour,
			BcryptCost:       getEnvAsInt("BCRYPT_COST", 10),
			EnforceOwnership: getEnvAsBool("AUTH_ENFORCE_OWNERSHIP", true),
		},
		Hashing: HashingConfig{
			Workers:   getEnvAsInt("HASH_WORKERS", runtime.NumCPU()),
			QueueSize: getEnvAsInt("HASH_QUEUE_SIZE", 64),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Cache: CacheConfig{
			Enabled:    getEnvAsBool("CACHE_ENABLED", false),
			L1Capacity: getEnvAsInt("CACHE_L1_CAPACITY", 10000),
			L1TTL:      getEnvAsDuration("CACHE_L1_TTL", 30*time.Second),
			L2TTL:      getEnvAsDuration("CACHE_L2_TTL", 10*time.Minute),
		},
		Events: EventsConfig{
			StreamName:  getEnv("EVENTS_STREAM_NAME", "accounts:events"),
			LockTTL:     getEnvAsDuration("REGISTRATION_LOCK_TTL", 5*time.Second),
			LockWait:    getEnvAsDuration("REGISTRATION_LOCK_WAIT", 2*time.Second),
			PublishWait: getEnvAsDuration("EVENTS_PUBLISH_TIMEOUT", time.Second),
		},
		Audit: AuditConfig{
			ConsumerGroup: getEnv("AUDIT_CONSUMER_GROUP", "audit-group"),
			ConsumerName:  getEnv("AUDIT_CONSUMER_NAME", "worker-1"),
			BatchSize:     getEnvAsInt("AUDIT_BATCH_SIZE", 100),
			PollInterval:  getEnvAsDuration("AUDIT_POLL_INTERVAL", time.Second),
			BlockTime:     getEnvAsDuration("AUDIT_BLOCK_TIME", 5*time.Second),
		},
		ClickHouse: ClickHouseConfig{
			Addr:     getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
			Database: getEnv("CLICKHOUSE_DATABASE", "audit"),
			Username: getEnv("CLICKHOUSE_USERNAME", "default"),
			Password: getEnv("CLICKHOUSE_PASSWORD", ""),
			MaxConns: getEnvAsInt("CLICKHOUSE_MAX_CONNS", 10),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "memory" {
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Database.Driver)
	}
	if cfg.Hashing.Workers < 1 {
		cfg.Hashing.Workers = 1
	}

	return cfg, nil
}

// DSN returns the primary connection string, built from the discrete
// DB_* fields unless DB_PRIMARY_DSN was given.
func (c DatabaseConfig) DSN() string {
	if c.PrimaryDSN != "" {
		return c.PrimaryDSN
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Name,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
