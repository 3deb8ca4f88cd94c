package redisstore

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jrsteele09/go-storefront/sessions"
)

var _ sessions.Repo = (*RedisRepo)(nil)

// RedisRepo keeps session slots in Redis under a common key prefix, letting
// several shells share one session.
type RedisRepo struct {
	client *redis.Client
	prefix string
}

// New connects to redisURL (e.g., "redis://localhost:6379/0") and checks the connection
func New(ctx context.Context, redisURL, prefix string) (*RedisRepo, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewWithClient(client, prefix), nil
}

// NewWithClient wraps an existing client
func NewWithClient(client *redis.Client, prefix string) *RedisRepo {
	return &RedisRepo{client: client, prefix: prefix}
}

func (r *RedisRepo) key(slot sessions.Slot) string {
	return r.prefix + string(slot)
}

func (r *RedisRepo) Write(ctx context.Context, slot sessions.Slot, value string) error {
	if err := r.client.Set(ctx, r.key(slot), value, 0).Err(); err != nil {
		return fmt.Errorf("write slot %s: %w", slot, err)
	}
	return nil
}

// WriteAll sets every slot inside one MULTI/EXEC transaction
func (r *RedisRepo) WriteAll(ctx context.Context, values map[sessions.Slot]string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for slot, value := range values {
			pipe.Set(ctx, r.key(slot), value, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write slots: %w", err)
	}
	return nil
}

func (r *RedisRepo) Read(ctx context.Context, slot sessions.Slot) (string, bool, error) {
	value, err := r.client.Get(ctx, r.key(slot)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read slot %s: %w", slot, err)
	}
	return value, true, nil
}

// ReadAll fetches every slot with one MGET
func (r *RedisRepo) ReadAll(ctx context.Context, slots ...sessions.Slot) (map[sessions.Slot]string, error) {
	values := make(map[sessions.Slot]string, len(slots))
	if len(slots) == 0 {
		return values, nil
	}

	keys := make([]string, len(slots))
	for i, slot := range slots {
		keys[i] = r.key(slot)
	}
	results, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read slots: %w", err)
	}

	for i, result := range results {
		value, ok := result.(string)
		if !ok {
			continue // nil for an absent key
		}
		values[slots[i]] = value
	}
	return values, nil
}

func (r *RedisRepo) Clear(ctx context.Context, slots ...sessions.Slot) error {
	if len(slots) == 0 {
		return nil
	}
	keys := make([]string, len(slots))
	for i, slot := range slots {
		keys[i] = r.key(slot)
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("clear slots: %w", err)
	}
	return nil
}

func (r *RedisRepo) Close() error {
	return r.client.Close()
}
