package service

import (
	"context"
	"log"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"dynotest/internal/repository"
	"dynotest/pkg/redis"
)

const (
	statsCacheKey = "dynotest:stats"
	statsCacheTTL = 30 * time.Second
)

// Stats is the admin dashboard snapshot: row counts plus redis server
// metrics.
type Stats struct {
	Users     int64             `json:"users"`
	Dynos     int64             `json:"dynos"`
	Histories int64             `json:"histories"`
	Redis     map[string]string `json:"redis,omitempty"`
	CachedAt  time.Time         `json:"cached_at"`
}

type StatsService interface {
	Stats(ctx context.Context) (*Stats, error)
}

type statsService struct {
	users     repository.UserRepository
	dynos     repository.DynoRepository
	histories repository.HistoryRepository
	cache     repository.CacheRepository
	client    *goredis.Client
}

func NewStatsService(
	users repository.UserRepository,
	dynos repository.DynoRepository,
	histories repository.HistoryRepository,
	cache repository.CacheRepository,
	client *goredis.Client,
) StatsService {
	return &statsService{
		users:     users,
		dynos:     dynos,
		histories: histories,
		cache:     cache,
		client:    client,
	}
}

func (s *statsService) Stats(ctx context.Context) (*Stats, error) {
	var cached Stats
	if hit, err := s.cache.GetJSON(ctx, statsCacheKey, &cached); err == nil && hit {
		return &cached, nil
	} else if err != nil {
		log.Printf("Stats cache read failed: %v", err)
	}

	stats := &Stats{CachedAt: time.Now().UTC()}

	var err error
	if stats.Users, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Dynos, err = s.dynos.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Histories, err = s.histories.Count(ctx); err != nil {
		return nil, err
	}

	if redisStats, err := redis.GetStats(s.client); err != nil {
		log.Printf("Failed to get redis stats: %v", err)
	} else {
		stats.Redis = redisStats
	}

	if err := s.cache.SetJSON(ctx, statsCacheKey, stats, statsCacheTTL); err != nil {
		log.Printf("Stats cache write failed: %v", err)
	}
	return stats, nil
}
