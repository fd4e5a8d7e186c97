package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
}

// NewRedisStore returns a Store backed by Redis, for deployments where
// sessions must survive a process restart.
func NewRedisStore(addr, password string, db int) Store {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &redisStore{client: client}
}

func (s *redisStore) Set(ctx context.Context, token string, payload []byte, ttl time.Duration) error {
	return s.client.Set(ctx, "session:"+token, payload, ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, token string) ([]byte, bool, error) {
	payload, err := s.client.Get(ctx, "session:"+token).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}

		return nil, false, err
	}

	return payload, true, nil
}

func (s *redisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, "session:"+token).Err()
}
