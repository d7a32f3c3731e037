package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	catalogapp "github.com/gemstok/inventory/internal/application/catalog"
	inventoryapp "github.com/gemstok/inventory/internal/application/inventory"
	"github.com/gemstok/inventory/internal/domain/catalog"
	"github.com/gemstok/inventory/internal/domain/inventory"
	"github.com/gemstok/inventory/internal/domain/shared"
	"github.com/gemstok/inventory/internal/infrastructure/cache"
	"github.com/gemstok/inventory/internal/infrastructure/config"
	"github.com/gemstok/inventory/internal/infrastructure/event"
	"github.com/gemstok/inventory/internal/infrastructure/logger"
	"github.com/gemstok/inventory/internal/infrastructure/messaging"
	"github.com/gemstok/inventory/internal/infrastructure/persistence"
	"github.com/gemstok/inventory/internal/interfaces/http/handler"
	"github.com/gemstok/inventory/internal/interfaces/http/middleware"
	"github.com/gemstok/inventory/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting inventory service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(cfg, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connected")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	codeRepo := persistence.NewGormProductCodeRepository(db.DB)
	opnameRepo := persistence.NewGormStockOpnameRepository(db.DB)
	companyRepo := persistence.NewCompanyReplicaRepository(db.DB)
	storeRepo := persistence.NewStoreReplicaRepository(db.DB)
	categoryRepo := persistence.NewCategoryReplicaRepository(db.DB)
	productTypeRepo := persistence.NewProductTypeReplicaRepository(db.DB)
	priceRepo := persistence.NewPriceReplicaRepository(db.DB)
	accountRepo := persistence.NewAccountReplicaRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Transaction scopes share one outbox writer so every command commits its
	// state change and its events together.
	outboxWriter := event.NewOutboxWriter(log)
	invScope := persistence.NewGormTransactionScope(db.DB, outboxWriter)
	catScope := persistence.NewCatalogTransactionScope(db.DB, outboxWriter)

	// Application services
	productService := catalogapp.NewProductService(catScope, productRepo, log)
	codeService := inventoryapp.NewProductCodeService(invScope, codeRepo, log)
	opnameService := inventoryapp.NewStockOpnameService(invScope, opnameRepo, log)
	replicaService := inventoryapp.NewReplicaService(codeRepo, opnameRepo, log)

	companyReplicator := catalogapp.NewReplicator[catalog.Company]("company", companyRepo, log)
	storeReplicator := catalogapp.NewReplicator[catalog.Store]("store", storeRepo, log)
	categoryReplicator := catalogapp.NewReplicator[catalog.Category]("category", categoryRepo, log)
	productTypeReplicator := catalogapp.NewReplicator[catalog.ProductType]("product_type", productTypeRepo, log)
	priceReplicator := catalogapp.NewReplicator[catalog.Price]("price", priceRepo, log)
	accountReplicator := catalogapp.NewReplicator[catalog.Account]("account", accountRepo, log)

	// Message bus
	conn, err := amqp.Dial(cfg.Rabbit.URL)
	if err != nil {
		log.Fatal("Failed to connect to message bus", zap.Error(err))
	}
	defer func() {
		_ = conn.Close()
	}()

	publisher, err := messaging.NewPublisher(conn, cfg.Rabbit.Exchange, log)
	if err != nil {
		log.Fatal("Failed to open publisher channel", zap.Error(err))
	}
	defer func() {
		_ = publisher.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Outbox relay
	relay := event.NewOutboxRelay(outboxRepo, publisher, event.OutboxRelayConfig{
		BatchSize:        cfg.Outbox.BatchSize,
		PollInterval:     cfg.Outbox.PollInterval,
		CleanupEnabled:   cfg.Outbox.CleanupEnabled,
		CleanupRetention: cfg.Outbox.CleanupRetention,
		CleanupInterval:  cfg.Outbox.CleanupInterval,
	}, log)
	if cfg.Outbox.RelayEnabled {
		relay.Start(ctx)
		defer relay.Stop()
		log.Info("Outbox relay started",
			zap.Int("batch_size", cfg.Outbox.BatchSize),
			zap.Duration("poll_interval", cfg.Outbox.PollInterval),
		)
	}

	// Idempotency store: redis when configured, in-process otherwise.
	var idemStore shared.IdempotencyStore
	if cfg.Redis.Host != "" {
		redisStore, err := cache.NewRedisIdempotencyStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		idemStore = redisStore
		log.Info("Using redis idempotency store", zap.String("host", cfg.Redis.Host))
	} else {
		idemStore = cache.NewInMemoryIdempotencyStore()
		log.Warn("Redis not configured, using in-memory idempotency store")
	}
	defer func() {
		_ = idemStore.Close()
	}()

	// Consumer side: every handler is wrapped in idempotent dispatch, and the
	// replica entry points never write the outbox, so a replayed event can
	// neither double-apply nor echo back onto the bus.
	registry := messaging.NewRegistry()
	handlers := eventHandlerSet{
		products:    productService,
		replicas:    replicaService,
		company:     companyReplicator,
		store:       storeReplicator,
		category:    categoryReplicator,
		productType: productTypeReplicator,
		price:       priceReplicator,
		account:     accountReplicator,
	}
	err = handlers.registerAll(registry, func(h messaging.HandlerFunc) messaging.HandlerFunc {
		return messaging.Idempotent(idemStore, shared.DefaultIdempotencyTTL, log, h)
	})
	if err != nil {
		log.Fatal("Failed to register handlers", zap.Error(err))
	}

	controller := messaging.NewRetryController(publisher, messaging.RetryPolicy{
		MaxRetries:    cfg.Rabbit.MaxRetries,
		DLQRoutingKey: cfg.Rabbit.DLQRoutingKey,
	}, log)

	consumer := messaging.NewConsumer(conn, cfg.Rabbit.Exchange, messaging.ConsumerConfig{
		Queue:    cfg.Rabbit.Queue,
		Bindings: cfg.Rabbit.Bindings,
		Prefetch: cfg.Rabbit.Prefetch,
	}, registry, controller, log)
	if err := consumer.Start(ctx); err != nil {
		log.Fatal("Failed to start consumer", zap.Error(err))
	}
	defer func() {
		if err := consumer.Stop(); err != nil {
			log.Error("Error stopping consumer", zap.Error(err))
		}
	}()
	log.Info("Consumer started",
		zap.String("queue", cfg.Rabbit.Queue),
		zap.Strings("bindings", cfg.Rabbit.Bindings),
	)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewHealthHandler(db))
	r.Register(handler.NewProductHandler(productService))
	r.Register(handler.NewProductCodeHandler(codeService))
	r.Register(handler.NewStockOpnameHandler(opnameService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	// Deferred stops tear down the consumer, relay, bus connection and
	// database in reverse start order.
}

// eventHandlerSet holds the consumer-side apply routines. Registration lives
// apart from main so the routing-key to payload-shape contract can be tested
// without a broker.
type eventHandlerSet struct {
	products    *catalogapp.ProductService
	replicas    *inventoryapp.ReplicaService
	company     *catalogapp.Replicator[catalog.Company]
	store       *catalogapp.Replicator[catalog.Store]
	category    *catalogapp.Replicator[catalog.Category]
	productType *catalogapp.Replicator[catalog.ProductType]
	price       *catalogapp.Replicator[catalog.Price]
	account     *catalogapp.Replicator[catalog.Account]
}

// registerAll binds every replicated routing key to its apply routine, each
// wrapped by wrap before registration.
func (s eventHandlerSet) registerAll(registry *messaging.Registry, wrap func(messaging.HandlerFunc) messaging.HandlerFunc) error {
	bindings := []struct {
		key string
		h   messaging.HandlerFunc
	}{
		{"company.created", replicatorApply(s.company)},
		{"company.updated", replicatorApply(s.company)},
		{"company.deleted", replicatorDelete(s.company)},
		{"store.created", replicatorApply(s.store)},
		{"store.updated", replicatorApply(s.store)},
		{"store.deleted", replicatorDelete(s.store)},
		{"category.created", replicatorApply(s.category)},
		{"category.updated", replicatorApply(s.category)},
		{"category.deleted", replicatorDelete(s.category)},
		{"type.created", replicatorApply(s.productType)},
		{"type.updated", replicatorApply(s.productType)},
		{"type.deleted", replicatorDelete(s.productType)},
		{"price.created", replicatorApply(s.price)},
		{"price.updated", replicatorApply(s.price)},
		{"price.deleted", replicatorDelete(s.price)},
		{"account.created", replicatorApply(s.account)},
		{"account.updated", replicatorApply(s.account)},
		{"account.deleted", replicatorDelete(s.account)},
		// Password changes ship the full account state; applying them is the
		// same upsert as any other account event.
		{"password.changed", replicatorApply(s.account)},

		{catalog.EventTypeProductCreated, applyHandler(s.products.ApplyProduct)},
		{catalog.EventTypeProductUpdated, applyHandler(s.products.ApplyProduct)},
		{catalog.EventTypeProductDeleted, deleteHandler(s.products.ApplyProductDelete)},

		{inventory.EventTypeProductCodeCreated, applyHandler(s.replicas.ApplyProductCode)},
		{inventory.EventTypeProductCodeUpdated, applyHandler(s.replicas.ApplyProductCode)},
		{inventory.EventTypeProductCodeDeleted, deleteHandler(s.replicas.DeleteProductCode)},

		// Approved/disapproved carry notification payloads (lost/reverted
		// lists), not full opname state; the header transition replicates
		// through the updated event emitted alongside them. Unhandled keys
		// are acked.
		{inventory.EventTypeStockOpnameCreated, applyHandler(s.replicas.ApplyStockOpname)},
		{inventory.EventTypeStockOpnameUpdated, applyHandler(s.replicas.ApplyStockOpname)},
		{inventory.EventTypeStockOpnameDeleted, deleteHandler(s.replicas.DeleteStockOpname)},
		{inventory.EventTypeStockOpnameDetailCreated, applyHandler(s.replicas.ApplyStockOpnameDetail)},
		{inventory.EventTypeStockOpnameDetailUpdated, applyHandler(s.replicas.ApplyStockOpnameDetail)},
	}
	for _, b := range bindings {
		if err := registry.Register(b.key, wrap(b.h)); err != nil {
			return fmt.Errorf("register %s: %w", b.key, err)
		}
	}
	return nil
}

// applyHandler adapts a full-state apply routine to the bus handler shape.
func applyHandler[T any](apply func(context.Context, T) error) messaging.HandlerFunc {
	return func(ctx context.Context, env messaging.Envelope) error {
		var state T
		if err := env.Bind(&state); err != nil {
			return err
		}
		return apply(ctx, state)
	}
}

// deleteHandler adapts a delete-by-ID routine. Delete events only carry the
// entity ID.
func deleteHandler(del func(context.Context, uuid.UUID) error) messaging.HandlerFunc {
	return func(ctx context.Context, env messaging.Envelope) error {
		var payload struct {
			ID uuid.UUID `json:"id"`
		}
		if err := env.Bind(&payload); err != nil {
			return err
		}
		return del(ctx, payload.ID)
	}
}

func replicatorApply[T any](r *catalogapp.Replicator[T]) messaging.HandlerFunc {
	return func(ctx context.Context, env messaging.Envelope) error {
		var state T
		if err := env.Bind(&state); err != nil {
			return err
		}
		return r.Apply(ctx, &state)
	}
}

func replicatorDelete[T any](r *catalogapp.Replicator[T]) messaging.HandlerFunc {
	return func(ctx context.Context, env messaging.Envelope) error {
		var payload struct {
			ID uuid.UUID `json:"id"`
		}
		if err := env.Bind(&payload); err != nil {
			return err
		}
		return r.ApplyDelete(ctx, payload.ID)
	}
}
