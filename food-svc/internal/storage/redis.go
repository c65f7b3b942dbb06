package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fooddelight/food-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

type RedisSessionStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{Client: client, TTL: ttl}
}

func (s *RedisSessionStore) SessionKey(token string) string {
	return "session:" + token
}

// Save binds token to identity and returns the expiry.
func (s *RedisSessionStore) Save(ctx context.Context, token string, identity domain.Identity) (time.Time, error) {
	payload, err := json.Marshal(identity)
	if err != nil {
		return time.Time{}, err
	}
	if err := s.Client.Set(ctx, s.SessionKey(token), payload, s.TTL).Err(); err != nil {
		return time.Time{}, err
	}
	return time.Now().Add(s.TTL), nil
}

// Lookup returns nil when the session is unknown or expired.
func (s *RedisSessionStore) Lookup(ctx context.Context, token string) (*domain.Identity, error) {
	payload, err := s.Client.Get(ctx, s.SessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var identity domain.Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, token string) error {
	return s.Client.Del(ctx, s.SessionKey(token)).Err()
}
