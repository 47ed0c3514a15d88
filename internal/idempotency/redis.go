package idempotency

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const pendingValue = "pending"

// RedisStore keeps keys in Redis so every API instance sees them.
type RedisStore struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisStore(addr, password string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	return &RedisStore{Client: client, Prefix: "safari:idem:", TTL: DefaultTTL}
}

func (s *RedisStore) key(k string) string { return s.Prefix + k }

func (s *RedisStore) Reserve(ctx context.Context, key string) (int64, error) {
	ok, err := s.Client.SetNX(ctx, s.key(key), pendingValue, s.TTL).Result()
	if err != nil {
		return 0, fmt.Errorf("reserve idempotency key: %w", err)
	}
	if ok {
		return 0, nil
	}

	val, err := s.Client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; try once more
		return s.Reserve(ctx, key)
	}
	if err != nil {
		return 0, fmt.Errorf("read idempotency key: %w", err)
	}
	if val == pendingValue {
		return 0, ErrInProgress
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt idempotency value %q: %w", val, err)
	}
	return id, nil
}

func (s *RedisStore) Complete(ctx context.Context, key string, bookingID int64) error {
	return s.Client.Set(ctx, s.key(key), strconv.FormatInt(bookingID, 10), s.TTL).Err()
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	return s.Client.Del(ctx, s.key(key)).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.Client.Close()
}
