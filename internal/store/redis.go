package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xplore-go/xplore/pkg/xapi"
)

// RedisStore keeps the pair JSON under a single key so several processes
// can share one session.
type RedisStore struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewRedisStore(addr, key string, ttl time.Duration) *RedisStore {
	return NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: addr}), key, ttl)
}

func NewRedisStoreWithClient(rdb *redis.Client, key string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, key: key, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context) ([]xapi.Pair, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, noSession("redis key " + s.key)
	}
	if err != nil {
		return nil, xapi.NewError(xapi.KindIO, "redis unavailable", err)
	}
	return xapi.UnmarshalPairs(data)
}

func (s *RedisStore) Save(ctx context.Context, pairs []xapi.Pair) error {
	data, err := xapi.MarshalPairs(pairs)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return xapi.NewError(xapi.KindIO, "redis unavailable", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return xapi.NewError(xapi.KindIO, "redis unavailable", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
