package storage

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "wallet:"

// RedisStore implements SecureStorage on Redis. Values are stored under
// a "wallet:" prefix; objects are JSON encoded.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Ping verifies connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return NewStorageError("ping", "", err)
	}
	return nil
}

// Close releases the underlying client connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// SetItem stores a string value.
func (s *RedisStore) SetItem(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return NewStorageError("set", key, err)
	}
	return nil
}

// GetItem fetches a string value.
func (s *RedisStore) GetItem(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", NewStorageError("get", key, err)
	}
	return value, nil
}

// DeleteItem removes a key. Deleting an absent key is not an error.
func (s *RedisStore) DeleteItem(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return NewStorageError("delete", key, err)
	}
	return nil
}

// SetObject stores a JSON-encoded object.
func (s *RedisStore) SetObject(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "failed to marshal object")
	}
	return s.SetItem(ctx, key, string(data))
}

// GetObject fetches and decodes a JSON object into out.
func (s *RedisStore) GetObject(ctx context.Context, key string, out interface{}) error {
	data, err := s.GetItem(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return errors.Wrap(ErrCorruptData, err.Error())
	}
	return nil
}
