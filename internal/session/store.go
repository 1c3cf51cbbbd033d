package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store persists session input tuples so a session can be rehydrated
// after eviction or restart. Only inputs are stored: breakdowns, rankings
// and reports are derived state and are recomputed on load.
type Store interface {
	// SaveInputs stores the input tuple for a session id.
	SaveInputs(ctx context.Context, id string, inputs Inputs) error

	// LoadInputs retrieves the input tuple for a session id. The second
	// return value reports whether the session was found.
	LoadInputs(ctx context.Context, id string) (Inputs, bool, error)

	// DeleteInputs removes a stored session.
	DeleteInputs(ctx context.Context, id string) error

	// Close releases store resources.
	Close() error
}

// MemoryStore is the default in-process store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Inputs
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]Inputs)}
}

// SaveInputs stores the input tuple for a session id.
func (m *MemoryStore) SaveInputs(_ context.Context, id string, inputs Inputs) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = inputs
	return nil
}

// LoadInputs retrieves the input tuple for a session id.
func (m *MemoryStore) LoadInputs(_ context.Context, id string) (Inputs, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inputs, ok := m.data[id]
	return inputs, ok, nil
}

// DeleteInputs removes a stored session.
func (m *MemoryStore) DeleteInputs(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error {
	return nil
}

// RedisStore keeps session inputs in Redis with a TTL, letting multiple
// server instances share sessions.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis at the given URL and verifies the
// connection.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func sessionKey(id string) string {
	return "biomatch:session:" + id
}

// SaveInputs stores the input tuple for a session id.
func (r *RedisStore) SaveInputs(ctx context.Context, id string, inputs Inputs) error {
	payload, err := json.Marshal(inputs)
	if err != nil {
		return fmt.Errorf("marshaling session inputs: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(id), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("storing session inputs: %w", err)
	}
	return nil
}

// LoadInputs retrieves the input tuple for a session id.
func (r *RedisStore) LoadInputs(ctx context.Context, id string) (Inputs, bool, error) {
	payload, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return Inputs{}, false, nil
	}
	if err != nil {
		return Inputs{}, false, fmt.Errorf("loading session inputs: %w", err)
	}
	var inputs Inputs
	if err := json.Unmarshal(payload, &inputs); err != nil {
		return Inputs{}, false, fmt.Errorf("unmarshaling session inputs: %w", err)
	}
	return inputs, true, nil
}

// DeleteInputs removes a stored session.
func (r *RedisStore) DeleteInputs(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id)).Err()
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
