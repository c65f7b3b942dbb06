package service

import (
	"context"

	"fooddelight/agg-svc/internal/domain"
	"fooddelight/agg-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StatsStore interface {
	RecordOrder(ctx context.Context, event domain.OrderEvent) (bool, error)
}

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type ConsumerInterface interface {
	Start(ctx context.Context) error
	ProcessOrder(ctx context.Context, event domain.OrderEvent) error
}

var (
	_ StatsStore        = (*storage.Store)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
