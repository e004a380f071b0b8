package kvstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// redisStore keeps each collection in one hash and its counter in a plain key:
//
//	<prefix>kv:<collection>      HASH key -> JSON
//	<prefix>kvseq:<collection>   INT
type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store. The client is owned by the caller.
func NewRedisStore(client *redis.Client, prefix string) Store {
	return &redisStore{client: client, prefix: prefix}
}

func (s *redisStore) hashKey(collection string) string {
	return s.prefix + "kv:" + collection
}

func (s *redisStore) seqKey(collection string) string {
	return s.prefix + "kvseq:" + collection
}

func (s *redisStore) Get(ctx context.Context, collection, key string, dest interface{}) error {
	raw, err := s.client.HGet(ctx, s.hashKey(collection), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (s *redisStore) Set(ctx context.Context, collection, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, s.hashKey(collection), key, raw).Err()
}

func (s *redisStore) Iterate(ctx context.Context, collection string, fn IterateFunc) error {
	all, err := s.client.HGetAll(ctx, s.hashKey(collection)).Result()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sortKeys(keys)

	for _, k := range keys {
		if err := fn(k, []byte(all[k])); err != nil {
			return err
		}
	}
	return nil
}

func (s *redisStore) NextSequence(ctx context.Context, collection string) (int64, error) {
	return s.client.Incr(ctx, s.seqKey(collection)).Result()
}

// Close is a no-op; the shared client is closed by its owner
func (s *redisStore) Close() error {
	return nil
}
