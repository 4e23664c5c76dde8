package repository

import (
	"context"
	"errors"
	"time"

	repo "fooddash/internal/repository"

	"github.com/redis/go-redis/v9"
)

const (
	queryCacheKeyPrefix = "qc:"
	queryCacheTagPrefix = "qctag:"
)

type queryCacheRedisRepository struct {
	client *redis.Client
}

func NewQueryCacheRedisRepository(client *redis.Client) repo.QueryCacheRepository {
	return &queryCacheRedisRepository{client: client}
}

func (r *queryCacheRedisRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, queryCacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// 本体とタグ集合を同じトランザクションで書く。
// タグ集合の期限は最後のSetに合わせる（呼び出し側のTTLは一定）。
func (r *queryCacheRedisRepository) Set(ctx context.Context, key string, body []byte, tags []string, ttl time.Duration) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, queryCacheKeyPrefix+key, body, ttl)
		for _, tag := range tags {
			tagKey := queryCacheTagPrefix + tag
			pipe.SAdd(ctx, tagKey, key)
			if ttl > 0 {
				pipe.Expire(ctx, tagKey, ttl)
			} else {
				pipe.Persist(ctx, tagKey)
			}
		}
		return nil
	})
	return err
}

func (r *queryCacheRedisRepository) InvalidateTags(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		tagKey := queryCacheTagPrefix + tag

		keys, err := r.client.SMembers(ctx, tagKey).Result()
		if err != nil {
			return err
		}

		del := make([]string, 0, len(keys)+1)
		for _, k := range keys {
			del = append(del, queryCacheKeyPrefix+k)
		}
		del = append(del, tagKey)

		if err := r.client.Del(ctx, del...).Err(); err != nil {
			return err
		}
	}
	return nil
}
