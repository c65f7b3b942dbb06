package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"fooddelight/agg-svc/internal/domain"

	"github.com/cenkalti/backoff/v5"
	"github.com/segmentio/kafka-go"
)

const maxRetryInterval = 30 * time.Second

type Consumer struct {
	Reader MessageReader
	Store  StatsStore
	// NewBackOff paces retries of a failed store write.
	NewBackOff func() backoff.BackOff
}

func NewConsumer(reader MessageReader, store StatsStore) *Consumer {
	return &Consumer{
		Reader:     reader,
		Store:      store,
		NewBackOff: defaultBackOff,
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.MaxInterval = maxRetryInterval
	return b
}

// Start consumes order events until ctx is cancelled. A message is committed
// only after it has been recorded or deliberately skipped; a store failure is
// retried in place, so later offsets never overtake it.
func (c *Consumer) Start(ctx context.Context) error {
	log.Println("[agg-svc] starting order stats consumer")
	for {
		message, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("[agg-svc] error reading message: %v", err)
			continue
		}

		if err := c.handle(ctx, message); err != nil {
			// Left uncommitted: the group hands it out again after a restart.
			log.Printf("[agg-svc] offset %d not committed: %v", message.Offset, err)
			if ctx.Err() != nil {
				return nil
			}
			continue
		}

		if err := c.Reader.CommitMessages(ctx, message); err != nil && ctx.Err() == nil {
			log.Printf("[agg-svc] error committing offset %d: %v", message.Offset, err)
		}
	}
}

// handle returns an error only when the event could not be recorded before ctx
// ended. Undecodable payloads are logged and skipped.
func (c *Consumer) handle(ctx context.Context, message kafka.Message) error {
	var event domain.OrderEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		log.Printf("[agg-svc] error unmarshaling message at offset %d: %v", message.Offset, err)
		return nil
	}

	newBackOff := c.NewBackOff
	if newBackOff == nil {
		newBackOff = defaultBackOff
	}
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, c.ProcessOrder(ctx, event)
	},
		backoff.WithBackOff(newBackOff()),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Printf("[agg-svc] error recording order %s, retrying in %s: %v", event.OrderID, next, err)
		}),
	)
	return err
}

func (c *Consumer) ProcessOrder(ctx context.Context, event domain.OrderEvent) error {
	if event.Type != domain.EventOrderPlaced {
		return nil
	}
	if event.OrderID == "" || event.RestaurantID == "" || event.ItemID == "" {
		log.Printf("[agg-svc] skipping incomplete order event %+v", event)
		return nil
	}

	recorded, err := c.Store.RecordOrder(ctx, event)
	if err != nil {
		return err
	}
	if !recorded {
		log.Printf("[agg-svc] order %s already counted", event.OrderID)
		return nil
	}
	log.Printf("[agg-svc] recorded order %s for restaurant %s", event.OrderID, event.RestaurantID)
	return nil
}
