package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"cari_magang/models"
)

const statsCacheKey = "jobboard:stats:summary"

// StatsStore aggregates the listings table.
type StatsStore interface {
	StatsSummary(ctx context.Context) (models.StatsSummary, error)
}

// StatsService serves the stats summary, fronted by a short-TTL redis cache
// when one is configured. A nil cache means every call hits Postgres.
type StatsService struct {
	store StatsStore
	cache *redis.Client
	ttl   time.Duration
}

func NewStatsService(store StatsStore, cache *redis.Client, ttl time.Duration) *StatsService {
	return &StatsService{store: store, cache: cache, ttl: ttl}
}

func (s *StatsService) Summary(ctx context.Context) (models.StatsSummary, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var out models.StatsSummary
			if err := json.Unmarshal(data, &out); err == nil {
				return out, nil
			}
		}
	}

	out, err := s.store.StatsSummary(ctx)
	if err != nil {
		return models.StatsSummary{}, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(out); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, data, s.ttl).Err(); err != nil {
				log.Printf("[stats] warning: cache set failed: %v", err)
			}
		}
	}

	return out, nil
}
