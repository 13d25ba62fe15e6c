package memory_repository

import (
	"context"
	"sync"
)

// memoryFlagRepository is process-local; flags are lost on restart.
type memoryFlagRepository struct {
	mu     sync.RWMutex
	stores map[string]map[string]bool
}

func New() *memoryFlagRepository {
	return &memoryFlagRepository{stores: map[string]map[string]bool{}}
}

func (m *memoryFlagRepository) Open(_ context.Context, store string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stores[store]; !ok {
		m.stores[store] = map[string]bool{}
	}
	return nil
}

func (m *memoryFlagRepository) All(_ context.Context, store string) (map[string]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]bool, len(m.stores[store]))
	for k, v := range m.stores[store] {
		out[k] = v
	}
	return out, nil
}

func (m *memoryFlagRepository) Get(_ context.Context, store, topicID string) (bool, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.stores[store][topicID]
	return v, ok, nil
}

func (m *memoryFlagRepository) Put(_ context.Context, store string, topicIDs []string, flag bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stores[store]
	if !ok {
		s = map[string]bool{}
		m.stores[store] = s
	}
	for _, id := range topicIDs {
		s[id] = flag
	}
	return nil
}

func (m *memoryFlagRepository) Delete(_ context.Context, store, topicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores[store], topicID)
	return nil
}

func (m *memoryFlagRepository) Close() error { return nil }
