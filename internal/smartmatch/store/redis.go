// internal/smartmatch/store/redis.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	profileKeyPrefix = "smartmatch:profile:"
	rankKeyPrefix    = "smartmatch:rank:"
)

func ProfileKey(id string) string {
	return profileKeyPrefix + id
}

func RankKey(hash string) string {
	return rankKeyPrefix + hash
}

// RedisProfiles mirrors profile documents in Redis.
type RedisProfiles struct {
	client *redis.Client
}

func NewRedisProfiles(client *redis.Client) *RedisProfiles {
	return &RedisProfiles{client: client}
}

func (r *RedisProfiles) GetProfiles(ctx context.Context, ids []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = ProfileKey(id)
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget profiles: %w", err)
	}
	for i, v := range vals {
		if s, ok := v.(string); ok && s != "" {
			out[ids[i]] = []byte(s)
		}
	}
	return out, nil
}

func (r *RedisProfiles) PutProfile(ctx context.Context, id string, doc []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, ProfileKey(id), doc, ttl).Err(); err != nil {
		return fmt.Errorf("redis set profile: %w", err)
	}
	return nil
}

// RedisScoreCache stores ranked results keyed by request hash.
type RedisScoreCache struct {
	client *redis.Client
}

func NewRedisScoreCache(client *redis.Client) *RedisScoreCache {
	return &RedisScoreCache{client: client}
}

// Get returns (nil, nil) on a cache miss.
func (r *RedisScoreCache) Get(ctx context.Context, hash string) ([]byte, error) {
	val, err := r.client.Get(ctx, RankKey(hash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get ranking: %w", err)
	}
	return val, nil
}

func (r *RedisScoreCache) Set(ctx context.Context, hash string, data []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, RankKey(hash), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set ranking: %w", err)
	}
	return nil
}
