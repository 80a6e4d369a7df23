package main

import (
	"context"
	"errors"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Varun5711/accounts/internal/api"
	"github.com/Varun5711/accounts/internal/auth"
	"github.com/Varun5711/accounts/internal/cache"
	"github.com/Varun5711/accounts/internal/config"
	"github.com/Varun5711/accounts/internal/database"
	"github.com/Varun5711/accounts/internal/events"
	"github.com/Varun5711/accounts/internal/health"
	"github.com/Varun5711/accounts/internal/lock"
	"github.com/Varun5711/accounts/internal/logger"
	"github.com/Varun5711/accounts/internal/redis"
	"github.com/Varun5711/accounts/internal/service"
	"github.com/Varun5711/accounts/internal/storage"
	"github.com/Varun5711/accounts/internal/workerpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	log := logger.New("account-service")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checker := health.NewChecker(2 * time.Second)

	var store storage.AccountStore
	var dbManager *database.DBManager
	switch cfg.Database.Driver {
	case "memory":
		log.Warn("Using in-memory account store; data is lost on restart")
		store = storage.NewMemoryAccountStore()
	default:
		dbManager, err = database.NewDBManager(ctx, database.Config{
			PrimaryDSN:      cfg.Database.DSN(),
			ReplicaDSNs:     cfg.Database.ReplicaDSNs,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer dbManager.Close()

		if cfg.Database.RunMigrations {
			if err := dbManager.Migrate(ctx); err != nil {
				log.Fatal("Failed to migrate database: %v", err)
			}
			log.Info("Database schema is up to date")
		}

		store = storage.NewPostgresAccountStore(dbManager)
		checker.Add("postgres", dbManager.Ping)
		checker.AddDetail("postgres_pool", func(context.Context) interface{} { return dbManager.Stats() })
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.Connect(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		checker.Add("redis", redisClient.Ping)
		checker.AddDetail("redis_pool", func(context.Context) interface{} { return redisClient.Stats() })
	} else {
		log.Info("REDIS_ADDR not set; registration lock, audit events and shared cache are disabled")
	}

	if cfg.Cache.Enabled {
		profileCache := cache.NewMultiTierCache(
			cache.NewLRUCache(cfg.Cache.L1Capacity, cfg.Cache.L1TTL),
			redisClient.Redis(),
			cfg.Cache.L2TTL,
		)
		store = storage.NewCachedAccountStore(store, profileCache, log.With("component", "cache"))
		checker.AddDetail("profile_cache", func(context.Context) interface{} { return profileCache.Stats() })
	}

	jwtManager, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal("Failed to create token manager: %v", err)
	}

	hashPool := workerpool.New(cfg.Hashing.Workers, cfg.Hashing.QueueSize)
	credentials := auth.NewCredentialManager(hashPool, cfg.Auth.BcryptCost)

	opts := []service.Option{service.WithOwnershipEnforced(cfg.Auth.EnforceOwnership)}
	if redisClient != nil {
		producer := events.NewProducer(redisClient.Redis(), cfg.Events.StreamName)
		checker.AddDetail("events_stream", func(ctx context.Context) interface{} { return producer.Info(ctx) })
		opts = append(opts,
			service.WithLocker(lock.NewEmailLocker(redisClient.Redis(), cfg.Events.LockTTL), cfg.Events.LockWait),
			service.WithPublisher(producer, cfg.Events.PublishWait),
		)
	}
	accountService := service.NewAccountService(store, credentials, jwtManager, log, opts...)

	router := api.NewRouter(api.RouterConfig{
		Accounts:       accountService,
		Verifier:       jwtManager,
		Health:         checker,
		AllowedOrigins: cfg.Server.CORSOrigins,
		OpenAPIPath:    cfg.Server.OpenAPIPath,
		Log:            log,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          stdlog.New(log, "", 0),
	}

	healthLis, err := net.Listen("tcp", ":"+cfg.Server.HealthGRPCPort)
	if err != nil {
		log.Fatal("Failed to listen on health port: %v", err)
	}
	healthServer := health.NewGRPCServer(checker, 10*time.Second, log)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Account service listening on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return healthServer.Serve(gctx, healthLis)
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down account service...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server error: %v", err)
	}

	if err := hashPool.Close(); err != nil {
		log.Error("Failed to drain hashing pool: %v", err)
	}
	log.Info("Account service stopped")
}
