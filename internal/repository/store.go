package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("record not found")

// redisStore keeps one JSON document per key with an optional expiry.
type redisStore[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	idOf   func(*T) string
}

func (that *redisStore[T]) CreateOrUpdate(ctx context.Context, value *T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not marshal %s: %w", that.prefix, err)
	}

	if err = that.client.Set(ctx, that.key(that.idOf(value)), data, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", that.prefix, err)
	}

	return nil
}

func (that *redisStore[T]) GetByID(ctx context.Context, id string) (*T, error) {
	response, err := that.client.Get(ctx, that.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s %s: %w", that.prefix, id, ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get %s by id: %w", that.prefix, err)
	}

	var value T
	if err = json.Unmarshal(response, &value); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", that.prefix, err)
	}

	return &value, nil
}

func (that *redisStore[T]) DeleteByID(ctx context.Context, id string) error {
	if err := that.client.Del(ctx, that.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s by id: %w", that.prefix, err)
	}

	return nil
}

func (that *redisStore[T]) key(id string) string {
	return that.prefix + ":" + id
}

// memoryStore is a bounded in-process LRU whose entries expire after ttl.
// Values are kept encoded so callers never share state with the store.
type memoryStore[T any] struct {
	name  string
	cache *expirable.LRU[string, []byte]
	idOf  func(*T) string
}

// newMemoryStore calls onEvict, when set, for every entry leaving the cache: capacity
// evictions, expiry and DeleteByID alike. It runs under the cache lock and must not
// call back into the store.
func newMemoryStore[T any](name string, capacity int, ttl time.Duration, idOf func(*T) string, onEvict func(*T)) *memoryStore[T] {
	var evict expirable.EvictCallback[string, []byte]
	if onEvict != nil {
		evict = func(_ string, data []byte) {
			var value T
			if err := json.Unmarshal(data, &value); err == nil {
				onEvict(&value)
			}
		}
	}

	return &memoryStore[T]{
		name:  name,
		cache: expirable.NewLRU[string, []byte](capacity, evict, ttl),
		idOf:  idOf,
	}
}

func (that *memoryStore[T]) CreateOrUpdate(_ context.Context, value *T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("could not marshal %s: %w", that.name, err)
	}

	that.cache.Add(that.idOf(value), data)

	return nil
}

func (that *memoryStore[T]) GetByID(_ context.Context, id string) (*T, error) {
	data, ok := that.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", that.name, id, ErrNotFound)
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", that.name, err)
	}

	return &value, nil
}

func (that *memoryStore[T]) DeleteByID(_ context.Context, id string) error {
	that.cache.Remove(id)

	return nil
}
