package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const sessionTokenKey = "bankshell||session-token"

// RedisStore keeps the session token in a single redis key.
type RedisStore struct {
	redisClient *redis.Client
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
	}
}

func (s *RedisStore) Get(ctx context.Context) (string, error) {
	cmd := s.redisClient.Get(ctx, sessionTokenKey)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("get session token: %w", err)
	}
	if cmd.Val() == "" {
		return "", ErrNoToken
	}
	return cmd.Val(), nil
}

func (s *RedisStore) Set(ctx context.Context, token string) error {
	if err := s.redisClient.Set(ctx, sessionTokenKey, token, 0).Err(); err != nil {
		return fmt.Errorf("set session token: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context) error {
	if err := s.redisClient.Del(ctx, sessionTokenKey).Err(); err != nil {
		return fmt.Errorf("remove session token: %w", err)
	}
	return nil
}
