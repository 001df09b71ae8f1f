package session

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory is a Store kept in process memory.
type Memory struct {
	id     string
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemory returns an empty in-memory session with a fresh ID.
func NewMemory() *Memory {
	return &Memory{id: uuid.NewString(), values: map[string][]byte{}}
}

func (m *Memory) ID() string { return m.id }

func (m *Memory) Get(_ context.Context, key string, dst any) error {
	m.mu.Lock()
	raw, ok := m.values[key]
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return decode(key, raw, dst)
}

func (m *Memory) Set(_ context.Context, key string, v any) error {
	b, err := encode(key, v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.values[key] = b
	m.mu.Unlock()
	return nil
}

func (m *Memory) Has(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	out := make([]string, 0, len(m.values))
	for k := range m.values {
		out = append(out, k)
	}
	m.mu.Unlock()
	sort.Strings(out)
	return out, nil
}

func (m *Memory) Incr(_ context.Context, key string, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, b, err := addInt(key, m.values[key], delta)
	if err != nil {
		return 0, err
	}
	m.values[key] = b
	return n, nil
}
