package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"todo-chat-backend/internal/types"
)

// fileState is the on-disk document. NextID is persisted so ids survive
// restarts without being reused after deletes.
type fileState struct {
	NextID int64        `json:"next_id"`
	Todos  []types.Todo `json:"todos"`
}

// FileStore persists todos as a single JSON document. Every mutation
// rewrites the file under the store's mutex.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) read() (fileState, error) {
	st := fileState{NextID: 1}
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return st, nil
		}
		return st, fmt.Errorf("read todo file: %w", err)
	}
	if err := json.Unmarshal(b, &st); err != nil {
		return st, fmt.Errorf("decode todo file: %w", err)
	}
	if st.NextID < 1 {
		st.NextID = 1
	}
	// Hand-edited files may carry ids past next_id.
	for _, t := range st.Todos {
		if t.ID >= st.NextID {
			st.NextID = t.ID + 1
		}
	}
	return st, nil
}

func (f *FileStore) write(st fileState) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create todo dir: %w", err)
	}
	if st.Todos == nil {
		st.Todos = []types.Todo{}
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write todo file: %w", err)
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStore) Create(_ context.Context, title string) (types.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, err := f.read()
	if err != nil {
		return types.Todo{}, err
	}
	t := types.Todo{ID: st.NextID, Title: title}
	st.NextID++
	st.Todos = append(st.Todos, t)
	if err := f.write(st); err != nil {
		return types.Todo{}, err
	}
	return t, nil
}

func (f *FileStore) List(_ context.Context) ([]types.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, err := f.read()
	if err != nil {
		return nil, err
	}
	return append([]types.Todo{}, st.Todos...), nil
}

func (f *FileStore) Delete(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, err := f.read()
	if err != nil {
		return false, err
	}
	idx := indexOf(st.Todos, id)
	if idx < 0 {
		return false, nil
	}
	st.Todos = append(st.Todos[:idx], st.Todos[idx+1:]...)
	if err := f.write(st); err != nil {
		return false, err
	}
	return true, nil
}

func (f *FileStore) Exists(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, err := f.read()
	if err != nil {
		return false, err
	}
	return indexOf(st.Todos, id) >= 0, nil
}

func (f *FileStore) SetCompleted(_ context.Context, id int64, completed bool) (types.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, err := f.read()
	if err != nil {
		return types.Todo{}, err
	}
	idx := indexOf(st.Todos, id)
	if idx < 0 {
		return types.Todo{}, ErrNotFound
	}
	st.Todos[idx].Completed = completed
	if err := f.write(st); err != nil {
		return types.Todo{}, err
	}
	return st.Todos[idx], nil
}

func (f *FileStore) Close() error { return nil }

func indexOf(todos []types.Todo, id int64) int {
	for i, t := range todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}
