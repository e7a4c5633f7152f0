package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix — префикс ключей refresh-токенов в Redis.
const DefaultPrefix = "auth:rt:"

// RedisStore — RefreshStore поверх Redis.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore создаёт клиент Redis из URL (например, redis://:pass@host:6379/0)
// и проверяет соединение. Если prefix пустой — используется DefaultPrefix.
func NewRedisStore(ctx context.Context, redisURL, prefix string) (*RedisStore, error) {
	const op = "cache.NewRedisStore"

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}

	return NewRedisStoreFromClient(rdb, prefix), nil
}

// NewRedisStoreFromClient оборачивает уже созданный клиент.
// Клиент переходит во владение RedisStore и закрывается в Close.
func NewRedisStoreFromClient(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &RedisStore{rdb: rdb, prefix: prefix}
}

// Client отдаёт клиент Redis для соседних компонентов (публикация событий).
func (s *RedisStore) Client() *redis.Client { return s.rdb }

func (s *RedisStore) key(k string) string { return s.prefix + k }

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	const op = "cache.redis.Set"

	if err := s.rdb.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	const op = "cache.redis.Get"

	v, err := s.rdb.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return "", fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}

	return v, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	const op = "cache.redis.Delete"

	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}

	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache.redis.Ping: %w: %w", ErrUnavailable, err)
	}

	return nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }

var _ RefreshStore = (*RedisStore)(nil)
