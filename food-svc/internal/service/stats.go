package service

import (
	"context"

	"fooddelight/food-svc/internal/domain"
)

const topItems = 5

type StatsService struct {
	reader StatsReader
}

func NewStatsService(reader StatsReader) *StatsService {
	return &StatsService{reader: reader}
}

// ForRestaurant returns zeroed stats when no reader is configured.
func (s *StatsService) ForRestaurant(ctx context.Context, restaurantID string) (*domain.RestaurantStats, error) {
	if s.reader == nil {
		return &domain.RestaurantStats{RestaurantID: restaurantID, TopItems: []domain.ItemStat{}}, nil
	}
	stats, err := s.reader.RestaurantStats(ctx, restaurantID, topItems)
	if err != nil {
		return nil, domain.ReadError("restaurant stats", err)
	}
	return stats, nil
}

var _ StatsServiceInterface = (*StatsService)(nil)
