package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-chat-backend/internal/config"
	"todo-chat-backend/internal/store"
	"todo-chat-backend/internal/types"
)

type brokenStore struct{ store.TodoStore }

func (brokenStore) List(context.Context) ([]types.Todo, error) {
	return nil, errors.New("connection refused")
}

func newTestServer(t *testing.T, st store.TodoStore) *httptest.Server {
	t.Helper()
	cfg := config.Config{AllowedOrigin: "*", MaxBodyBytes: 1 << 20, StoreDriver: config.DriverMemory}
	s, err := NewServer(context.Background(), cfg, st)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf strings.Builder
	_, err = io.Copy(&buf, resp.Body)
	require.NoError(t, err)
	return resp, []byte(buf.String())
}

func chatMessage(t *testing.T, url, message string) types.ChatResponse {
	t.Helper()
	body, err := json.Marshal(types.ChatRequest{Message: message})
	require.NoError(t, err)
	resp, raw := do(t, http.MethodPost, url+"/chat", string(body))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var out types.ChatResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestRoot(t *testing.T) {
	ts := newTestServer(t, store.NewMemoryStore())
	resp, raw := do(t, http.MethodGet, ts.URL+"/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status types.StatusResponse
	require.NoError(t, json.Unmarshal(raw, &status))
	assert.Equal(t, Version, status.Version)

	for _, path := range []string{"/health", "/api/health"} {
		resp, _ := do(t, http.MethodGet, ts.URL+path, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestChat_Flow(t *testing.T) {
	ts := newTestServer(t, store.NewMemoryStore())

	added := chatMessage(t, ts.URL, "Add todo: buy milk")
	assert.Equal(t, types.ActionAdd, added.Action)
	assert.Contains(t, added.Response, "buy milk")

	shown := chatMessage(t, ts.URL+"/api", "show todos")
	assert.Equal(t, types.ActionShow, shown.Action)
	assert.Contains(t, shown.Response, "buy milk")

	deleted := chatMessage(t, ts.URL, "delete todo 1")
	assert.Equal(t, types.ActionDelete, deleted.Action)

	missing := chatMessage(t, ts.URL, "delete todo 1")
	assert.Equal(t, types.ActionDelete, missing.Action)
	assert.Contains(t, missing.Response, "not found")
}

func TestChat_AnyTextIsAnswered(t *testing.T) {
	ts := newTestServer(t, store.NewMemoryStore())
	inputs := []string{
		"",
		"🙂🙃",
		"<script>alert(1)</script>",
		strings.Repeat("x", 64*1024),
		"\x00\xff invalid utf8",
	}
	for _, in := range inputs {
		out := chatMessage(t, ts.URL, in)
		assert.Equal(t, types.ActionUnknown, out.Action)
		assert.NotEmpty(t, out.Response)
	}
}

func TestChat_BadBodies(t *testing.T) {
	ts := newTestServer(t, store.NewMemoryStore())

	resp, _ := do(t, http.MethodPost, ts.URL+"/chat", "not json")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	huge := `{"message":"` + strings.Repeat("a", 2<<20) + `"}`
	resp, _ = do(t, http.MethodPost, ts.URL+"/chat", huge)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestChat_StoreFailureIsNotAChatReply(t *testing.T) {
	ts := newTestServer(t, brokenStore{TodoStore: store.NewMemoryStore()})

	resp, raw := do(t, http.MethodPost, ts.URL+"/chat", `{"message":"show todos"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var e types.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	assert.NotEmpty(t, e.Error)

	// Commands that do not list still work.
	out := chatMessage(t, ts.URL, "hi")
	assert.Equal(t, types.ActionGreeting, out.Action)
}

func TestTodosREST(t *testing.T) {
	ts := newTestServer(t, store.NewMemoryStore())

	resp, raw := do(t, http.MethodPost, ts.URL+"/todos", `{"title":"  write tests  "}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var created types.Todo
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, types.Todo{ID: 1, Title: "write tests"}, created)

	resp, _ = do(t, http.MethodPost, ts.URL+"/todos", `{"title":"   "}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp, _ = do(t, http.MethodPost, ts.URL+"/todos", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, raw = do(t, http.MethodPatch, ts.URL+"/api/todos/1", `{"completed":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var updated types.Todo
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.True(t, updated.Completed)

	resp, _ = do(t, http.MethodPatch, ts.URL+"/todos/1", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp, _ = do(t, http.MethodPatch, ts.URL+"/todos/42", `{"completed":true}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = do(t, http.MethodGet, ts.URL+"/todos", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var todos []types.Todo
	require.NoError(t, json.Unmarshal(raw, &todos))
	assert.Equal(t, []types.Todo{{ID: 1, Title: "write tests", Completed: true}}, todos)

	resp, _ = do(t, http.MethodHead, ts.URL+"/todos/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, ts.URL+"/todos/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = do(t, http.MethodDelete, ts.URL+"/todos/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = do(t, http.MethodHead, ts.URL+"/todos/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, http.MethodDelete, ts.URL+"/todos/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, store.NewMemoryStore())
	chatMessage(t, ts.URL, "hello")

	resp, raw := do(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `todo_chat_messages_total{action="greeting"}`)
}
