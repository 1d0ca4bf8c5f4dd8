package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/apper-canvas/realmquickcart/internal/config"
	"github.com/apper-canvas/realmquickcart/internal/event"
	handler "github.com/apper-canvas/realmquickcart/internal/handler/http"
	"github.com/apper-canvas/realmquickcart/internal/recordstore"
	recordhttp "github.com/apper-canvas/realmquickcart/internal/recordstore/http"
	"github.com/apper-canvas/realmquickcart/internal/recordstore/memory"
	recordpg "github.com/apper-canvas/realmquickcart/internal/recordstore/postgres"
	"github.com/apper-canvas/realmquickcart/internal/repository"
	"github.com/apper-canvas/realmquickcart/internal/repository/record"
	redisrepo "github.com/apper-canvas/realmquickcart/internal/repository/redis"
	"github.com/apper-canvas/realmquickcart/internal/service"
	"github.com/apper-canvas/realmquickcart/pkg/database"
	"github.com/apper-canvas/realmquickcart/pkg/health"
	"github.com/apper-canvas/realmquickcart/pkg/httpclient"
	pkgkafka "github.com/apper-canvas/realmquickcart/pkg/kafka"
	"github.com/apper-canvas/realmquickcart/pkg/middleware"
	"github.com/apper-canvas/realmquickcart/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	pgPool         *pgxpool.Pool
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing is a no-op unless enabled in the config.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.TracingEndpoint,
		SampleRate:     cfg.TracingSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Redis holds guest session state and the catalog cache.
	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("host", cfg.RedisHost),
		slog.Int("db", cfg.RedisDB),
	)

	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	// Record store backend.
	var (
		store  recordstore.Store
		pgPool *pgxpool.Pool
	)
	switch cfg.RecordStoreBackend {
	case config.BackendRemote:
		client := httpclient.New(httpclient.DefaultConfig())
		cb := httpclient.NewCircuitBreakerClient(client, httpclient.DefaultCircuitBreakerConfig("record-store"), logger)
		store = recordhttp.New(recordhttp.Config{
			BaseURL: cfg.RecordStoreURL,
			APIKey:  cfg.RecordStoreAPIKey,
		}, cb, logger)
		logger.Info("using remote record store", slog.String("url", cfg.RecordStoreURL))

	case config.BackendPostgres:
		pgCfg := database.DefaultPostgresConfig()
		pgCfg.Host = cfg.PostgresHost
		pgCfg.Port = cfg.PostgresPort
		pgCfg.User = cfg.PostgresUser
		pgCfg.Password = cfg.PostgresPassword
		pgCfg.DBName = cfg.PostgresDB
		pgCfg.SSLMode = cfg.PostgresSSLMode

		pgPool, err = database.NewPostgresPool(ctx, &pgCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		store = recordpg.New(pgPool)
		healthHandler.Register("postgres", func(ctx context.Context) error {
			return pgPool.Ping(ctx)
		})
		logger.Info("using postgres record store", slog.String("host", cfg.PostgresHost))

	case config.BackendMemory:
		store = memory.New()
		logger.Info("using in-memory record store")

	default:
		return nil, fmt.Errorf("unknown record store backend: %q", cfg.RecordStoreBackend)
	}

	// Kafka producer for domain events.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	eventProducer := event.NewProducer(producer, logger)

	// Products, reviews, and orders always live in the record store. Cart
	// and wishlist state follows it too when a real backend exists; with
	// the in-memory backend they fall back to Redis session storage so
	// guest carts survive restarts.
	products := record.NewProductRepository(store)
	reviews := record.NewReviewRepository(store)
	orders := record.NewOrderRepository(store)

	var (
		carts     repository.CartRepository
		wishlists repository.WishlistRepository
	)
	if cfg.RecordStoreBackend == config.BackendMemory {
		carts = redisrepo.NewCartRepository(rdb, cfg.SessionTTL())
		wishlists = redisrepo.NewWishlistRepository(rdb, cfg.SessionTTL())
	} else {
		carts = record.NewCartRepository(store)
		wishlists = record.NewWishlistRepository(store)
	}

	cache := redisrepo.NewCatalogCache(rdb, cfg.CatalogCacheTTL())

	cartService := service.NewCartService(carts, products, eventProducer, logger)
	svcs := handler.Services{
		Catalog:  service.NewCatalogService(products, cache, logger),
		Cart:     cartService,
		Reviews:  service.NewReviewService(reviews, eventProducer, logger),
		Orders:   service.NewOrderService(orders, cartService, eventProducer, logger),
		Wishlist: service.NewWishlistService(wishlists, eventProducer, logger),
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.CORSAllowedOrigins
	corsConfig.Environment = cfg.Environment

	router := handler.NewRouter(svcs, healthHandler, corsConfig, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		pgPool:         pgPool,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if a.pgPool != nil {
		a.pgPool.Close()
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
