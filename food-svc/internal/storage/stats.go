package storage

import (
	"context"
	"errors"
	"time"

	"fooddelight/food-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Keys written by agg-svc.
func ItemsKey(restaurantID string) string {
	return "stats:items:" + restaurantID
}

func RevenueKey(restaurantID string) string {
	return "stats:revenue:" + restaurantID
}

func DailyKey(day time.Time, restaurantID string) string {
	return "stats:daily:" + day.UTC().Format("2006-01-02") + ":" + restaurantID
}

type RedisStatsReader struct {
	Client *redis.Client
	Now    func() time.Time
}

func NewRedisStatsReader(client *redis.Client) *RedisStatsReader {
	return &RedisStatsReader{Client: client, Now: time.Now}
}

func (r *RedisStatsReader) RestaurantStats(ctx context.Context, restaurantID string, top int) (*domain.RestaurantStats, error) {
	stats := &domain.RestaurantStats{RestaurantID: restaurantID, TopItems: []domain.ItemStat{}}

	today, err := r.Client.Get(ctx, DailyKey(r.Now(), restaurantID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	stats.OrdersToday = today

	revenue, err := r.Client.Get(ctx, RevenueKey(restaurantID)).Float64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	stats.Revenue = revenue

	members, err := r.Client.ZRevRangeWithScores(ctx, ItemsKey(restaurantID), 0, int64(top-1)).Result()
	if err != nil {
		return nil, err
	}
	for _, member := range members {
		itemID, _ := member.Member.(string)
		stats.TopItems = append(stats.TopItems, domain.ItemStat{ItemID: itemID, Orders: member.Score})
	}
	return stats, nil
}
