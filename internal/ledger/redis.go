package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists the ledger as a JSON document under a single
// redis key.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore creates a redis-backed ledger store
func NewRedisStore(addr string, db int, key string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisStore{
		client: client,
		key:    key,
	}
}

// Load reads the ledger record from redis
func (s *RedisStore) Load(ctx context.Context) (*Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return NewSnapshot(nil, time.Time{}), nil
	}
	if err != nil {
		return nil, err
	}

	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return fromRecord(r), nil
}

// Save writes the ledger record to redis
func (s *RedisStore) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(toRecord(snap))
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, data, 0).Err()
}

// Reset clears the ledger
func (s *RedisStore) Reset(ctx context.Context) error {
	return s.Save(ctx, NewSnapshot(nil, time.Time{}))
}

// Close closes the redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
