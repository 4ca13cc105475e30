package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-shop-admin/internal/catalog"
	"github.com/ariefcatur/go-shop-admin/internal/config"
	"github.com/ariefcatur/go-shop-admin/internal/events"
	"github.com/ariefcatur/go-shop-admin/internal/httpx"
	"github.com/ariefcatur/go-shop-admin/internal/inventory"
	kafkax "github.com/ariefcatur/go-shop-admin/internal/kafka"
	"github.com/ariefcatur/go-shop-admin/internal/logger"
	"github.com/ariefcatur/go-shop-admin/internal/orders"
	"github.com/ariefcatur/go-shop-admin/internal/postgres"
	"github.com/ariefcatur/go-shop-admin/internal/redisx"
	"github.com/ariefcatur/go-shop-admin/internal/session"
	"github.com/ariefcatur/go-shop-admin/internal/shopify"
	"github.com/ariefcatur/go-shop-admin/internal/sqlite"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Service:     cfg.ServiceName,
		Development: cfg.AppEnv == "dev",
		Encoding:    cfg.LogEncoding,
		Level:       cfg.LogLevel,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sessions
	store, closeStore, err := openSessionStore(ctx, cfg)
	if err != nil {
		log.Fatal("session store", zap.String("backend", cfg.SessionStore), zap.Error(err))
	}
	defer closeStore()

	// Kafka producers; no brokers means events are dropped
	var audit, webhooks events.Publisher = events.Noop{}, events.Noop{}
	var producers []*kafkax.Producer
	if len(cfg.KafkaBrokers) > 0 {
		pa := kafkax.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicAudit, 1024, log)
		pw := kafkax.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicWebhook, 1024, log)
		for _, p := range []*kafkax.Producer{pa, pw} {
			p.Start(ctx)
			producers = append(producers, p)
		}
		audit, webhooks = kafkax.NewEventPublisher(pa), kafkax.NewEventPublisher(pw)
	} else {
		log.Warn("KAFKA_BROKERS empty, audit events disabled")
	}

	// Upstream & services
	client := shopify.New(shopify.Options{
		BaseURL:             cfg.Shopify.BaseURL,
		APIVersion:          cfg.Shopify.APIVersion,
		InventoryAPIVersion: cfg.Shopify.InventoryAPIVersion,
		Timeout:             cfg.Shopify.Timeout,
		Logger:              log.Named("shopify"),
	})
	fetcher := &catalog.Fetcher{Upstream: client}
	invSvc := &inventory.Service{Upstream: client, Events: audit, Producer: cfg.ServiceName, Log: log}
	loc, err := cfg.Location()
	if err != nil {
		log.Warn("unknown shop timezone, date filters use the server zone", zap.String("zone", loc.String()), zap.Error(err))
	}
	orderSvc := &orders.Service{Upstream: client, Events: audit, Producer: cfg.ServiceName, Location: loc, Log: log}

	// Routes
	if cfg.Shopify.APISecret == "" {
		log.Warn("SHOPIFY_API_SECRET empty, every admin request and webhook will be rejected")
	}
	if cfg.Shopify.APIKey == "" {
		log.Warn("SHOPIFY_API_KEY empty, session token audience is not checked")
	}
	tokens := &session.TokenVerifier{Secret: cfg.Shopify.APISecret, APIKey: cfg.Shopify.APIKey, Leeway: 5 * time.Second}

	router := httpx.NewRouter(log)
	httpx.MountAdmin(router, store, tokens, log,
		&httpx.ProductsHandler{
			Catalog:    fetcher,
			Aggregator: &inventory.Aggregator{Levels: client, Fanout: cfg.InventoryFanout, Log: log},
			Counter:    client,
			Log:        log,
		},
		&httpx.InventoryHandler{Catalog: fetcher, Service: invSvc, Log: log},
		&httpx.OrdersHandler{Service: orderSvc, Log: log},
	)
	wh := &httpx.WebhookHandler{Secret: cfg.Shopify.APISecret, Events: webhooks, Producer: cfg.ServiceName, Log: log}
	wh.Register(router)

	// HTTP server
	srv := httpx.NewServer(cfg.HTTPAddr, router)
	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr), zap.String("session_store", cfg.SessionStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	for _, p := range producers {
		p.Close() // flush what is buffered
	}
	for _, p := range producers {
		p.WaitClosed()
	}
}

func openSessionStore(ctx context.Context, cfg config.Config) (session.Store, func(), error) {
	switch cfg.SessionStore {
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return &sqlite.SessionStore{DB: db}, func() { _ = db.Close() }, nil
	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		store := &postgres.SessionStore{DB: pool}
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	case "redis":
		rdb := redisx.New(cfg.RedisAddr)
		if err := redisx.Ping(ctx, rdb); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return &redisx.SessionStore{RDB: rdb}, func() { _ = rdb.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown SESSION_STORE %q", cfg.SessionStore)
}
