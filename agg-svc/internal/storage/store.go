package storage

import (
	"context"
	"time"

	"fooddelight/agg-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	dailyTTL = 7 * 24 * time.Hour
	seenTTL  = 7 * 24 * time.Hour
)

// Key layout read back by food-svc.
func ItemsKey(restaurantID string) string {
	return "stats:items:" + restaurantID
}

func RevenueKey(restaurantID string) string {
	return "stats:revenue:" + restaurantID
}

func DailyKey(day time.Time, restaurantID string) string {
	return "stats:daily:" + day.UTC().Format("2006-01-02") + ":" + restaurantID
}

func seenKey(orderID string) string {
	return "stats:seen:" + orderID
}

type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// RecordOrder folds one placed order into the restaurant counters. Redelivered
// events are counted once.
func (s *Store) RecordOrder(ctx context.Context, event domain.OrderEvent) (bool, error) {
	fresh, err := s.rdb.SetNX(ctx, seenKey(event.OrderID), 1, seenTTL).Result()
	if err != nil {
		return false, err
	}
	if !fresh {
		return false, nil
	}

	day := event.Timestamp
	if day.IsZero() {
		day = time.Now()
	}
	dailyKey := DailyKey(day, event.RestaurantID)

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZIncrBy(ctx, ItemsKey(event.RestaurantID), 1, event.ItemID)
		pipe.IncrByFloat(ctx, RevenueKey(event.RestaurantID), event.Price)
		pipe.Incr(ctx, dailyKey)
		pipe.Expire(ctx, dailyKey, dailyTTL)
		return nil
	})
	if err != nil {
		// Let a redelivery try again.
		s.rdb.Del(ctx, seenKey(event.OrderID))
		return false, err
	}
	return true, nil
}
