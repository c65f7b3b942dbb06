package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fooddelight/config"
	httpapi "fooddelight/food-svc/internal/api/http"
	"fooddelight/food-svc/internal/docstore"
	"fooddelight/food-svc/internal/service"
	"fooddelight/food-svc/internal/storage"
	"fooddelight/food-svc/internal/telemetry"
	"fooddelight/food-svc/internal/web"
)

func newStore(ctx context.Context, driver string) (docstore.Store, func(), error) {
	switch driver {
	case "memory":
		log.Printf("[food-svc] using in-memory document store")
		return docstore.NewMemoryStore(), func() {}, nil
	case "postgres":
		db := config.MustInitPostgres()
		store := docstore.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", driver)
	}
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: "food-svc",
		Exporter:    cfg.Telemetry.Exporter,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
	})
	if err != nil {
		log.Fatalf("[food-svc] telemetry: %v", err)
	}

	store, closeStore, err := newStore(ctx, cfg.StoreDriver)
	if err != nil {
		log.Fatalf("[food-svc] store: %v", err)
	}
	defer closeStore()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	writer := config.NewKafkaWriter(cfg.OrdersTopic)
	defer writer.Close()

	identity := service.NewIdentityService(store, storage.NewRedisSessionStore(rdb, cfg.SessionTTL))
	accounts := service.NewAccountService(store, identity)
	catalog := service.NewCatalogService(store)
	orders := service.NewOrderService(store,
		storage.NewKafkaPublisher(writer),
		service.DefaultQRGenerator{BaseURL: cfg.BaseURL},
		cfg.OrderFanout,
	)
	stats := service.NewStatsService(storage.NewRedisStatsReader(rdb))

	views, err := web.NewViews(accounts, catalog, orders, stats)
	if err != nil {
		log.Fatalf("[food-svc] views: %v", err)
	}
	handler := httpapi.NewHandler(accounts, identity, catalog, orders, stats)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handler, views),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[food-svc] listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[food-svc] server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[food-svc] shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[food-svc] http shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("[food-svc] tracing shutdown: %v", err)
	}
}
