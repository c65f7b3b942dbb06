package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"fooddelight/agg-svc/internal/service"
	"fooddelight/agg-svc/internal/storage"
	"fooddelight/config"
)

func main() {
	cfg := config.Load()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	reader := config.NewKafkaReader(cfg.OrdersTopic, "agg-svc")
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := service.NewConsumer(reader, storage.NewStore(rdb))
	if err := consumer.Start(ctx); err != nil {
		log.Printf("[agg-svc] consumer stopped: %v", err)
	}
	log.Println("[agg-svc] shut down")
}
