package services

import (
	"context"
	"sync"
	"time"
)

// MockCache is an in-memory Cache for testing. Expirations are recorded
// but never enforced.
type MockCache struct {
	mu   sync.Mutex
	data map[string]interface{}

	PingFunc  func(ctx context.Context) error
	SetNXFunc func(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)

	// Track calls for testing
	SetNXCalls []SetCall
	DelCalls   [][]string
	CloseCalls int
}

type SetCall struct {
	Key        string
	Value      interface{}
	Expiration time.Duration
}

// NewMockCache creates a new mock cache
func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string]interface{}),
	}
}

// Ping mocks cache ping
func (m *MockCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *MockCache) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	m.mu.Lock()
	m.SetNXCalls = append(m.SetNXCalls, SetCall{Key: key, Value: value, Expiration: expiration})
	fn := m.SetNXFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, key, value, expiration)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, held := m.data[key]; held {
		return false, nil
	}
	m.data[key] = value
	return true, nil
}

func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DelCalls = append(m.DelCalls, keys)
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *MockCache) DelIfValue(ctx context.Context, key string, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; !ok || v != value {
		return false, nil
	}
	delete(m.data, key)
	return true, nil
}

func (m *MockCache) Exists(ctx context.Context, keys ...string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockCache) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalls++
	return nil
}

func (m *MockCache) WaitForConnection(ctx context.Context) error {
	return m.Ping(ctx)
}

// SetPingError sets up the mock to return an error on Ping
func (m *MockCache) SetPingError(err error) {
	m.PingFunc = func(ctx context.Context) error {
		return err
	}
}

// SetPingSuccess sets up the mock to return success on Ping
func (m *MockCache) SetPingSuccess() {
	m.PingFunc = func(ctx context.Context) error {
		return nil
	}
}

// Ensure MockCache implements Cache interface
var _ Cache = (*MockCache)(nil)
