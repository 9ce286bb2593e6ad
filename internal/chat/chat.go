// Package chat interprets short free-text commands against a todo store.
//
// A message goes through three steps: Match classifies it into an Intent,
// Executor runs the store operation, and Format wraps the outcome into a
// types.ChatResponse. No state is kept between messages.
package chat

import (
	"context"
	"time"

	"todo-chat-backend/internal/logging"
	"todo-chat-backend/internal/metrics"
	"todo-chat-backend/internal/store"
	"todo-chat-backend/internal/types"
)

type Assistant struct {
	exec *Executor
}

func NewAssistant(st store.TodoStore, replies *Replies) *Assistant {
	return &Assistant{exec: NewExecutor(st, replies)}
}

// ProcessMessage answers one chat message. Any text, including the empty
// string, gets a reply; an error means the store failed.
func (a *Assistant) ProcessMessage(ctx context.Context, message string) (types.ChatResponse, error) {
	start := time.Now()
	in := Match(message)

	logger := logging.FromCtx(ctx)
	logger.Debug().
		Str("intent", string(in.Kind)).
		Int("len", len(message)).
		Msg("classified chat message")

	reply, action, err := a.exec.Execute(ctx, in)
	if err != nil {
		logger.Error().Err(err).Str("intent", string(in.Kind)).Msg("chat command failed")
		return types.ChatResponse{}, err
	}

	metrics.ChatMessagesTotal.WithLabelValues(string(action)).Inc()
	metrics.ChatDuration.WithLabelValues(string(action)).Observe(time.Since(start).Seconds())
	return Format(reply, action), nil
}

// Format wraps a reply and its action tag. It does not alter either.
func Format(reply string, action types.Action) types.ChatResponse {
	return types.ChatResponse{Response: reply, Action: action}
}
