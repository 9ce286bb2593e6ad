package chat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-chat-backend/internal/store"
	"todo-chat-backend/internal/types"
)

// failingStore reports errors from every call.
type failingStore struct{ err error }

func (f failingStore) Create(context.Context, string) (types.Todo, error) { return types.Todo{}, f.err }
func (f failingStore) List(context.Context) ([]types.Todo, error)         { return nil, f.err }
func (f failingStore) Delete(context.Context, int64) (bool, error)        { return false, f.err }
func (f failingStore) Exists(context.Context, int64) (bool, error)        { return false, f.err }
func (f failingStore) SetCompleted(context.Context, int64, bool) (types.Todo, error) {
	return types.Todo{}, f.err
}
func (f failingStore) Close() error { return nil }

func newAssistant(t *testing.T) (*Assistant, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	return NewAssistant(st, DefaultReplies()), st
}

func TestProcessMessage_Scenarios(t *testing.T) {
	ctx := context.Background()

	t.Run("add on empty store", func(t *testing.T) {
		a, st := newAssistant(t)
		resp, err := a.ProcessMessage(ctx, "Add todo: buy milk")
		require.NoError(t, err)
		assert.Equal(t, types.ActionAdd, resp.Action)
		assert.Contains(t, resp.Response, "1")
		assert.Contains(t, resp.Response, "buy milk")

		todos, err := st.List(ctx)
		require.NoError(t, err)
		require.Len(t, todos, 1)
		assert.Equal(t, types.Todo{ID: 1, Title: "buy milk"}, todos[0])
	})

	t.Run("show on empty store", func(t *testing.T) {
		a, _ := newAssistant(t)
		resp, err := a.ProcessMessage(ctx, "Show todos")
		require.NoError(t, err)
		assert.Equal(t, types.ActionShow, resp.Action)
		assert.Equal(t, DefaultReplies().Empty(), resp.Response)
	})

	t.Run("delete missing id", func(t *testing.T) {
		a, st := newAssistant(t)
		_, err := st.Create(ctx, "keep me")
		require.NoError(t, err)

		resp, err := a.ProcessMessage(ctx, "Delete todo 999")
		require.NoError(t, err)
		assert.Equal(t, types.ActionDelete, resp.Action)
		assert.Contains(t, resp.Response, "999")
		assert.Contains(t, resp.Response, "not found")

		todos, err := st.List(ctx)
		require.NoError(t, err)
		assert.Len(t, todos, 1)
	})

	t.Run("greeting ignores store", func(t *testing.T) {
		a, st := newAssistant(t)
		empty, err := a.ProcessMessage(ctx, "Hello")
		require.NoError(t, err)
		_, err = st.Create(ctx, "something")
		require.NoError(t, err)
		full, err := a.ProcessMessage(ctx, "Hello")
		require.NoError(t, err)

		assert.Equal(t, types.ActionGreeting, empty.Action)
		assert.Equal(t, empty, full)
	})

	t.Run("empty message", func(t *testing.T) {
		a, _ := newAssistant(t)
		resp, err := a.ProcessMessage(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, types.ActionUnknown, resp.Action)
		assert.NotEmpty(t, resp.Response)
	})

	t.Run("help wins over embedded command", func(t *testing.T) {
		a, st := newAssistant(t)
		resp, err := a.ProcessMessage(ctx, "help me add todo: x")
		require.NoError(t, err)
		assert.Equal(t, types.ActionHelp, resp.Action)

		todos, err := st.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, todos)
	})
}

func TestProcessMessage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	a, _ := newAssistant(t)

	_, err := a.ProcessMessage(ctx, "add todo: water plants")
	require.NoError(t, err)
	_, err = a.ProcessMessage(ctx, "add todo: Pay Rent")
	require.NoError(t, err)

	shown, err := a.ProcessMessage(ctx, "show todos")
	require.NoError(t, err)
	assert.Equal(t, types.ActionShow, shown.Action)
	assert.Contains(t, shown.Response, "1. [ ] water plants")
	assert.Contains(t, shown.Response, "2. [ ] Pay Rent")

	again, err := a.ProcessMessage(ctx, "list todos")
	require.NoError(t, err)
	assert.Equal(t, shown, again)

	deleted, err := a.ProcessMessage(ctx, "delete todo 1")
	require.NoError(t, err)
	assert.Equal(t, types.ActionDelete, deleted.Action)
	assert.Contains(t, deleted.Response, "1")
	assert.NotContains(t, deleted.Response, "not found")

	after, err := a.ProcessMessage(ctx, "my todos")
	require.NoError(t, err)
	assert.NotContains(t, after.Response, "water plants")
	assert.Contains(t, after.Response, "Pay Rent")

	// Ids are not reused after a delete.
	added, err := a.ProcessMessage(ctx, "add todo: third")
	require.NoError(t, err)
	assert.Contains(t, added.Response, "(ID: 3)")
}

func TestProcessMessage_ShowMarksCompleted(t *testing.T) {
	ctx := context.Background()
	a, st := newAssistant(t)
	done, err := st.Create(ctx, "done thing")
	require.NoError(t, err)
	_, err = st.Create(ctx, "open thing")
	require.NoError(t, err)
	_, err = st.SetCompleted(ctx, done.ID, true)
	require.NoError(t, err)

	resp, err := a.ProcessMessage(ctx, "show todos")
	require.NoError(t, err)
	lines := strings.Split(resp.Response, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "  1. [x] done thing", lines[1])
	assert.Equal(t, "  2. [ ] open thing", lines[2])
}

func TestProcessMessage_StoreFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk on fire")
	a := NewAssistant(failingStore{err: boom}, nil)

	for _, msg := range []string{"add todo: x", "show todos", "delete todo 1"} {
		resp, err := a.ProcessMessage(ctx, msg)
		assert.ErrorIs(t, err, boom, msg)
		assert.Equal(t, types.ChatResponse{}, resp, msg)
	}

	// Messages that never touch the store still succeed.
	for _, msg := range []string{"hi", "help", "what?"} {
		_, err := a.ProcessMessage(ctx, msg)
		assert.NoError(t, err, msg)
	}
}

func TestProcessMessage_ConcurrentAddsAndDeletes(t *testing.T) {
	ctx := context.Background()
	a, st := newAssistant(t)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.ProcessMessage(ctx, "add todo: task")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	todos, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, todos, n)
	seen := make(map[int64]bool, n)
	for _, td := range todos {
		assert.False(t, seen[td.ID], "duplicate id %d", td.ID)
		seen[td.ID] = true
	}

	var mu sync.Mutex
	successes := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := a.ProcessMessage(ctx, "delete todo 1")
			assert.NoError(t, err)
			if !strings.Contains(resp.Response, "not found") {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, successes)
}

func TestFormat(t *testing.T) {
	for _, action := range types.Actions {
		resp := Format("text", action)
		assert.Equal(t, types.ChatResponse{Response: "text", Action: action}, resp)
	}
}

func TestLoadReplies_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "replies.yaml")
	content := "greeting: howdy\nadded: \"added #{{.ID}} {{.Title}}\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r, err := LoadReplies(path)
	require.NoError(t, err)
	assert.Equal(t, "howdy", r.Greeting())
	assert.Equal(t, "added #7 x", r.Added(types.Todo{ID: 7, Title: "x"}))
	// Keys absent from the file keep their defaults.
	assert.Equal(t, DefaultReplies().Help(), r.Help())
}

func TestLoadReplies_Invalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"bad template":  "added: \"{{.ID\"\n",
		"unknown field": "deleted: \"{{.Nope}}\"\n",
		"bad yaml":      "greeting: [unclosed\n",
	}
	for name, content := range cases {
		path := filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := LoadReplies(path)
		assert.Error(t, err, name)
	}

	_, err := LoadReplies(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
