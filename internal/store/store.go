package store

import (
	"context"
	"errors"

	"todo-chat-backend/internal/types"
)

// ErrNotFound is returned by lookups that address a missing todo.
var ErrNotFound = errors.New("todo not found")

// TodoStore is the single writer for todo records. Implementations assign
// ids that are never reused, delete with an atomic check-and-remove, and
// list a consistent snapshot in insertion order.
type TodoStore interface {
	Create(ctx context.Context, title string) (types.Todo, error)
	List(ctx context.Context) ([]types.Todo, error)
	// Delete reports whether a record was removed.
	Delete(ctx context.Context, id int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// SetCompleted returns ErrNotFound when id is absent.
	SetCompleted(ctx context.Context, id int64, completed bool) (types.Todo, error)
	Close() error
}
