package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"todo-chat-backend/internal/store"
	"todo-chat-backend/internal/types"
)

// GET /todos
func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := s.store.List(r.Context())
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, todos)
}

// POST /todos
func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var req types.TodoCreate
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "title must be non-blank and at most 500 characters")
		return
	}
	t, err := s.store.Create(r.Context(), strings.TrimSpace(req.Title))
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

// HEAD /todos/{id}
func (s *Server) handleTodoExists(w http.ResponseWriter, r *http.Request) {
	id, ok := s.todoID(w, r)
	if !ok {
		return
	}
	exists, err := s.store.Exists(r.Context(), id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// PATCH /todos/{id}
func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := s.todoID(w, r)
	if !ok {
		return
	}
	var req types.TodoUpdate
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, "completed is required")
		return
	}
	t, err := s.store.SetCompleted(r.Context(), id, *req.Completed)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "Todo not found")
		return
	}
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, t)
}

// DELETE /todos/{id}
func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := s.todoID(w, r)
	if !ok {
		return
	}
	removed, err := s.store.Delete(r.Context(), id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	if !removed {
		s.writeError(w, http.StatusNotFound, "Todo not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Todo " + strconv.FormatInt(id, 10) + " deleted successfully",
	})
}

func (s *Server) todoID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 0 {
		s.writeError(w, http.StatusBadRequest, "invalid todo id")
		return 0, false
	}
	return id, true
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	hlog.FromRequest(r).Error().Err(err).Msg("todo store failed")
	s.writeError(w, http.StatusInternalServerError, "todo storage is unavailable")
}
