package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todo-chat-backend/internal/db"
	"todo-chat-backend/internal/types"
)

// DatabaseStore stores todos in SQL (PostgreSQL or SQLite)
type DatabaseStore struct {
	db *db.DB
}

// NewDatabaseStore creates a new database store over a migrated connection
func NewDatabaseStore(database *db.DB) *DatabaseStore {
	return &DatabaseStore{db: database}
}

// Create inserts a todo; the database assigns the id.
func (ds *DatabaseStore) Create(ctx context.Context, title string) (types.Todo, error) {
	query := ds.db.Rebind(`
		INSERT INTO todos (title, completed)
		VALUES (?, ?)
		RETURNING id, title, completed
	`)

	var t types.Todo
	err := ds.db.QueryRowContext(ctx, query, title, false).Scan(&t.ID, &t.Title, &t.Completed)
	if err != nil {
		return types.Todo{}, fmt.Errorf("failed to create todo: %w", err)
	}
	return t, nil
}

// List returns all todos in insertion order
func (ds *DatabaseStore) List(ctx context.Context) ([]types.Todo, error) {
	rows, err := ds.db.QueryContext(ctx, `SELECT id, title, completed FROM todos ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []types.Todo{}
	for rows.Next() {
		var t types.Todo
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// Delete removes a todo. The affected row count makes check-and-remove a
// single statement, so concurrent deletes of one id cannot both succeed.
func (ds *DatabaseStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := ds.db.ExecContext(ctx, ds.db.Rebind(`DELETE FROM todos WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete todo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete todo: %w", err)
	}
	return n > 0, nil
}

func (ds *DatabaseStore) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := ds.db.QueryRowContext(ctx, ds.db.Rebind(`SELECT 1 FROM todos WHERE id = ?`), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check todo: %w", err)
	}
	return true, nil
}

func (ds *DatabaseStore) SetCompleted(ctx context.Context, id int64, completed bool) (types.Todo, error) {
	query := ds.db.Rebind(`
		UPDATE todos SET completed = ?
		WHERE id = ?
		RETURNING id, title, completed
	`)

	var t types.Todo
	err := ds.db.QueryRowContext(ctx, query, completed, id).Scan(&t.ID, &t.Title, &t.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Todo{}, ErrNotFound
	}
	if err != nil {
		return types.Todo{}, fmt.Errorf("failed to update todo: %w", err)
	}
	return t, nil
}

func (ds *DatabaseStore) Close() error {
	return ds.db.Close()
}
