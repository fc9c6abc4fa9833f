package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const updateLockExpiry = 5 * time.Second

// RedisStore keeps documents as plain redis strings. Update holds a redsync
// lock on the key so concurrent API instances do not lose writes.
type RedisStore struct {
	client *redis.Client
	locker *redsync.Redsync
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	pool := goredis.NewPool(client)
	return &RedisStore{client: client, locker: redsync.New(pool)}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, i.ErrNotFound
	}
	return value, err
}

func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *RedisStore) Update(ctx context.Context, key string, fn func([]byte) ([]byte, error)) error {
	mutex := s.locker.NewMutex(key+":lock", redsync.WithExpiry(updateLockExpiry))
	if err := mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	current, err := s.Get(ctx, key)
	if err != nil && !errors.Is(err, i.ErrNotFound) {
		return err
	}
	next, err := fn(current)
	if err != nil || next == nil {
		return err
	}
	return s.Put(ctx, key, next)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
