package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/morislaflame/clo-client/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisStore is an alternative guest basket store for deployments where the
// client runs as a shared kiosk and the basket must survive the device.
// Expiry is delegated to the key TTL instead of the envelope timestamp.
type RedisStore struct {
	client   *redis.Client
	clientID string
	ttl      time.Duration
}

func NewRedisStore(client *redis.Client, clientID string) *RedisStore {
	return &RedisStore{
		client:   client,
		clientID: clientID,
		ttl:      DefaultExpiry,
	}
}

func (s *RedisStore) WithExpiry(d time.Duration) *RedisStore {
	s.ttl = d
	return s
}

func (s *RedisStore) Load(ctx context.Context) ([]domain.BasketLine, error) {
	data, err := s.client.Get(ctx, s.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		slog.Warn("discarding unreadable local basket", "key", s.key(), "error", err)
		_ = s.Clear(ctx)
		return nil, nil
	}
	return env.Items, nil
}

func (s *RedisStore) Save(ctx context.Context, lines []domain.BasketLine) error {
	env := envelope{Items: lines, Timestamp: time.Now().UnixMilli()}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal basket failed: %w", err)
	}

	if err := s.client.Set(ctx, s.key(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (s *RedisStore) key() string {
	return fmt.Sprintf("basket:%s", s.clientID)
}
