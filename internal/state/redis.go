package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "view-state:"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{
		client: rdb,
		ttl:    ttl,
	}
}

func (r *RedisStore) Load(ctx context.Context, id string) (*ViewState, error) {
	val, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get view state: %w", err)
	}
	return decode(val)
}

// Save writes the state and refreshes its expiry.
func (r *RedisStore) Save(ctx context.Context, id string, st *ViewState) error {
	data, err := sonic.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode view state: %w", err)
	}
	return r.client.Set(ctx, keyPrefix+id, data, r.ttl).Err()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
