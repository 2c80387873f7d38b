package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists credentials in a Redis hash. It is used when several
// back-office processes share one operator session, e.g. a kiosk deployment
// behind the same service account.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisStore constructs a Redis-backed credential store. The key names the
// hash holding the three slots; pass an empty key to use the default.
func NewRedisStore(client redis.Cmdable, key string) *RedisStore {
	if key == "" {
		key = "backoffice:session"
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Save(ctx context.Context, creds Credentials) error {
	slots := creds.slots()
	if len(slots) == 0 {
		return nil
	}
	fields := make([]any, 0, len(slots)*2)
	for slot, value := range slots {
		fields = append(fields, slot, value)
	}
	if err := s.client.HSet(ctx, s.key, fields...).Err(); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

func (s *RedisStore) AccessToken(ctx context.Context) (string, error) {
	return s.lookup(ctx, slotAccessToken)
}

func (s *RedisStore) RefreshToken(ctx context.Context) (string, error) {
	return s.lookup(ctx, slotRefreshToken)
}

func (s *RedisStore) IdentityToken(ctx context.Context) (string, error) {
	return s.lookup(ctx, slotIdentityToken)
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (s *RedisStore) Bootstrap(ctx context.Context) (string, error) {
	return s.AccessToken(ctx)
}

func (s *RedisStore) lookup(ctx context.Context, slot string) (string, error) {
	value, err := s.client.HGet(ctx, s.key, slot).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%s: %w", slot, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", slot, err)
	}
	if value == "" {
		return "", fmt.Errorf("%s: %w", slot, ErrNotFound)
	}
	return value, nil
}
