package store

import (
	"context"
	"sync"

	"todo-chat-backend/internal/types"
)

// MemoryStore keeps todos in process memory. Useful for tests and for
// running the server without any persistence.
type MemoryStore struct {
	mu     sync.RWMutex
	todos  map[int64]types.Todo
	order  []int64
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		todos:  make(map[int64]types.Todo),
		nextID: 1,
	}
}

func (m *MemoryStore) Create(_ context.Context, title string) (types.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := types.Todo{ID: m.nextID, Title: title}
	m.nextID++
	m.todos[t.ID] = t
	m.order = append(m.order, t.ID)
	return t, nil
}

func (m *MemoryStore) List(_ context.Context) ([]types.Todo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Todo, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.todos[id])
	}
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.todos[id]; !ok {
		return false, nil
	}
	delete(m.todos, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (m *MemoryStore) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.todos[id]
	return ok, nil
}

func (m *MemoryStore) SetCompleted(_ context.Context, id int64, completed bool) (types.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.todos[id]
	if !ok {
		return types.Todo{}, ErrNotFound
	}
	t.Completed = completed
	m.todos[id] = t
	return t, nil
}

func (m *MemoryStore) Close() error { return nil }
