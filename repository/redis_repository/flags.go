package redis_repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const flagKeyPrefix = "digestboard:"

// redisFlagRepository keeps each store as one hash of topicId -> "1"|"0".
type redisFlagRepository struct {
	client *redis.Client
}

func NewRedisFlagRepository(client *redis.Client) *redisFlagRepository {
	return &redisFlagRepository{client: client}
}

func key(store string) string { return flagKeyPrefix + store }

func encode(flag bool) string {
	if flag {
		return "1"
	}
	return "0"
}

func (r *redisFlagRepository) Open(ctx context.Context, _ string) error {
	return Ping(ctx, r.client)
}

func (r *redisFlagRepository) All(ctx context.Context, store string) (map[string]bool, error) {
	vals, err := r.client.HGetAll(ctx, key(store)).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(vals))
	for id, v := range vals {
		out[id] = v == "1"
	}
	return out, nil
}

func (r *redisFlagRepository) Get(ctx context.Context, store, topicID string) (bool, bool, error) {
	v, err := r.client.HGet(ctx, key(store), topicID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, false, nil
		}
		return false, false, err
	}
	return v == "1", true, nil
}

func (r *redisFlagRepository) Put(ctx context.Context, store string, topicIDs []string, flag bool) error {
	if len(topicIDs) == 0 {
		return nil
	}
	fields := make([]interface{}, 0, len(topicIDs)*2)
	for _, id := range topicIDs {
		fields = append(fields, id, encode(flag))
	}
	return r.client.HSet(ctx, key(store), fields...).Err()
}

func (r *redisFlagRepository) Delete(ctx context.Context, store, topicID string) error {
	return r.client.HDel(ctx, key(store), topicID).Err()
}

func (r *redisFlagRepository) Close() error { return r.client.Close() }
