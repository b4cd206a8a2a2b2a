package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type MockRedisClient struct {
	DelFunc    func(ctx context.Context, key ...string) error
	SetObjFunc func(ctx context.Context, key string, obj any, ttl time.Duration) error
	GetObjFunc func(ctx context.Context, key string, v any) error
}

func (m *MockRedisClient) Del(ctx context.Context, key ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, key...)
	}

	return nil
}

func (m *MockRedisClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	if m.SetObjFunc != nil {
		return m.SetObjFunc(ctx, key, obj, ttl)
	}

	return nil
}

func (m *MockRedisClient) GetObj(ctx context.Context, key string, v any) error {
	if m.GetObjFunc != nil {
		return m.GetObjFunc(ctx, key, v)
	}

	return redis.Nil
}

// NewMemoryRedisClient returns a mock storing objects as JSON in a map. TTLs
// are ignored.
func NewMemoryRedisClient() (*MockRedisClient, map[string][]byte) {
	var mutex sync.Mutex
	store := map[string][]byte{}

	return &MockRedisClient{
		DelFunc: func(_ context.Context, keys ...string) error {
			mutex.Lock()
			defer mutex.Unlock()
			for _, k := range keys {
				delete(store, k)
			}
			return nil
		},
		SetObjFunc: func(_ context.Context, key string, obj any, _ time.Duration) error {
			b, err := json.Marshal(obj)
			if err != nil {
				return err
			}

			mutex.Lock()
			defer mutex.Unlock()
			store[key] = b
			return nil
		},
		GetObjFunc: func(_ context.Context, key string, v any) error {
			mutex.Lock()
			b, ok := store[key]
			mutex.Unlock()
			if !ok {
				return redis.Nil
			}

			return json.Unmarshal(b, v)
		},
	}, store
}
