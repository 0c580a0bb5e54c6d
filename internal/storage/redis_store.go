package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	snapshotKey = "voltride:identity:snapshot"

	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 3 * time.Second
	defaultWriteTimeout = 3 * time.Second
)

// RedisStore keeps the snapshot in a single redis key, for installs that
// already run redis and want the session to survive host changes.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redis, validates the connection with PING, and
// returns the store.
func NewRedisStore(addr, password string) (*RedisStore, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("storage: redis addr is empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), defaultDialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// Save replaces the snapshot. No TTL: the snapshot lives until logout clears it.
func (s *RedisStore) Save(ctx context.Context, data []byte) error {
	return s.client.Set(ctx, snapshotKey, data, 0).Err()
}

// Load returns the snapshot bytes or ErrNoSnapshot.
func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	result, err := s.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Clear deletes the snapshot key.
func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, snapshotKey).Err()
}

// Close releases the redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
