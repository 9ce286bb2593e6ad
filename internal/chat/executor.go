package chat

import (
	"context"
	"fmt"

	"todo-chat-backend/internal/metrics"
	"todo-chat-backend/internal/store"
	"todo-chat-backend/internal/types"
)

// Executor performs the store operation behind an intent and words the
// outcome. Only add and delete write to the store.
type Executor struct {
	store   store.TodoStore
	replies *Replies
}

func NewExecutor(st store.TodoStore, replies *Replies) *Executor {
	if replies == nil {
		replies = DefaultReplies()
	}
	return &Executor{store: st, replies: replies}
}

// Execute returns the reply text and action tag for in. A non-nil error
// always comes from the store and carries no reply.
func (e *Executor) Execute(ctx context.Context, in Intent) (string, types.Action, error) {
	switch in.Kind {
	case types.ActionAdd:
		t, err := e.store.Create(ctx, in.Title)
		if err != nil {
			metrics.StoreErrorsTotal.WithLabelValues("create").Inc()
			return "", "", fmt.Errorf("add todo: %w", err)
		}
		return e.replies.Added(t), types.ActionAdd, nil
	case types.ActionShow:
		todos, err := e.store.List(ctx)
		if err != nil {
			metrics.StoreErrorsTotal.WithLabelValues("list").Inc()
			return "", "", fmt.Errorf("show todos: %w", err)
		}
		if len(todos) == 0 {
			return e.replies.Empty(), types.ActionShow, nil
		}
		return e.replies.List(todos), types.ActionShow, nil
	case types.ActionDelete:
		removed, err := e.store.Delete(ctx, in.ID)
		if err != nil {
			metrics.StoreErrorsTotal.WithLabelValues("delete").Inc()
			return "", "", fmt.Errorf("delete todo %d: %w", in.ID, err)
		}
		if !removed {
			return e.replies.NotFound(in.ID), types.ActionDelete, nil
		}
		return e.replies.Deleted(in.ID), types.ActionDelete, nil
	case types.ActionGreeting:
		return e.replies.Greeting(), types.ActionGreeting, nil
	case types.ActionHelp:
		return e.replies.Help(), types.ActionHelp, nil
	default:
		return e.replies.Unknown(), types.ActionUnknown, nil
	}
}
