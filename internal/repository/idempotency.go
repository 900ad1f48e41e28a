package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const idempotencyTTL = 24 * time.Hour

type IdempotencyStore struct {
	rdb *redis.Client
}

func NewIdempotencyStore(rdb *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb}
}

func idempotencyKey(userID int64, key string) string {
	return fmt.Sprintf("idempotent-key:%d:%s", userID, key)
}

// Claim records the user's key for 24 hours. It returns false when the key was already claimed.
func (s *IdempotencyStore) Claim(ctx context.Context, userID int64, key string) (bool, error) {
	return s.rdb.SetNX(ctx, idempotencyKey(userID, key), "exists", idempotencyTTL).Result()
}

// Release forgets a claimed key so the caller may retry.
func (s *IdempotencyStore) Release(ctx context.Context, userID int64, key string) error {
	return s.rdb.Del(ctx, idempotencyKey(userID, key)).Err()
}
