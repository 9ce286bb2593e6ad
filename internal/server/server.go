package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/hlog"

	"todo-chat-backend/internal/chat"
	"todo-chat-backend/internal/config"
	"todo-chat-backend/internal/logging"
	"todo-chat-backend/internal/store"
	"todo-chat-backend/internal/types"
)

const Version = "1.0.0"

type Server struct {
	router    *chi.Mux
	store     store.TodoStore
	assistant *chat.Assistant
	cfg       config.Config
	validate  *validator.Validate
}

// NewServer wires the HTTP API over st. The server does not own st; the
// caller closes it.
func NewServer(ctx context.Context, cfg config.Config, st store.TodoStore) (*Server, error) {
	replies, err := chat.LoadReplies(cfg.RepliesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat replies: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("failed to register validator: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(*logging.FromCtx(ctx)))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router:    r,
		store:     st,
		assistant: chat.NewAssistant(st, replies),
		cfg:       cfg,
		validate:  validate,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Get("/", s.handleRoot)
	s.router.Handle("/metrics", promhttp.Handler())
	s.apiRoutes(s.router)
	s.router.Route("/api", s.apiRoutes)
}

// apiRoutes is mounted both at the root and under /api.
func (s *Server) apiRoutes(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Post("/chat", s.handleChat)
	r.Get("/todos", s.handleListTodos)
	r.Post("/todos", s.handleCreateTodo)
	r.Route("/todos/{id}", func(r chi.Router) {
		r.Head("/", s.handleTodoExists)
		r.Patch("/", s.handleUpdateTodo)
		r.Delete("/", s.handleDeleteTodo)
	})
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, types.StatusResponse{
		Message: "Todo API with Chatbot is running!",
		Version: Version,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /chat
// Every message, including an empty one, is answered with 200. Only a body
// that is not a JSON object is rejected.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp, err := s.assistant.ProcessMessage(r.Context(), req.Message)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "todo storage is unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// decode reads a size-limited JSON body into dst, writing the error response
// itself when it fails.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, types.ErrorResponse{Error: msg})
}
