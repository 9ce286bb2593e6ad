package store

import (
	"context"
	"fmt"

	"todo-chat-backend/internal/config"
	"todo-chat-backend/internal/db"
	"todo-chat-backend/internal/logging"
)

// Open builds the TodoStore selected by cfg.StoreDriver. SQL backends are
// migrated before they are returned.
func Open(ctx context.Context, cfg config.Config) (TodoStore, error) {
	logger := logging.FromCtx(ctx)

	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Warn().Msg("using in-memory store; todos are lost on restart")
		return NewMemoryStore(), nil
	case config.DriverFile:
		logger.Info().Str("path", cfg.TodoFile).Msg("using file store")
		return NewFileStore(cfg.TodoFile), nil
	case config.DriverBadger:
		logger.Info().Str("dir", cfg.BadgerDir).Msg("using badger store")
		bs, err := OpenBadgerStore(cfg.BadgerDir)
		if err != nil {
			return nil, err
		}
		return bs, nil
	case config.DriverSQLite, config.DriverPostgres:
		var (
			database *db.DB
			err      error
		)
		if cfg.StoreDriver == config.DriverSQLite {
			database, err = db.NewSQLite(ctx, cfg.SQLitePath)
		} else {
			database, err = db.New(ctx, cfg.DatabaseURL)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		logger.Info().Str("dialect", string(database.Dialect)).Msg("database connection established")

		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info().Msg("database migrations completed")
		return NewDatabaseStore(database), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
