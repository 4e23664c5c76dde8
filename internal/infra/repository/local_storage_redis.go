package repository

import (
	"context"
	"errors"
	"time"

	repo "fooddash/internal/repository"

	"github.com/redis/go-redis/v9"
)

// 端末ごとに1つのHashへ保存する。field = key
type localStorageRedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// ttlが0なら期限なし
func NewLocalStorageRedisRepository(client *redis.Client, ttl time.Duration) repo.LocalStorageRepository {
	return &localStorageRedisRepository{client: client, ttl: ttl}
}

func (r *localStorageRedisRepository) hashKey(namespace string) string {
	return "localstorage:" + namespace
}

func (r *localStorageRedisRepository) GetItem(ctx context.Context, namespace string, key string) (string, error) {
	v, err := r.client.HGet(ctx, r.hashKey(namespace), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", repo.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (r *localStorageRedisRepository) SetItem(ctx context.Context, namespace string, key string, value string) error {
	hk := r.hashKey(namespace)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hk, key, value)
		// 最後に触った時点から期限を延ばす
		if r.ttl > 0 {
			pipe.Expire(ctx, hk, r.ttl)
		}
		return nil
	})
	return err
}

func (r *localStorageRedisRepository) RemoveItem(ctx context.Context, namespace string, key string) error {
	return r.client.HDel(ctx, r.hashKey(namespace), key).Err()
}
