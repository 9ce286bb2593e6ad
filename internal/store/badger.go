package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	"todo-chat-backend/internal/types"
)

const maxConflictRetries = 5

var (
	todoPrefix = []byte("todo:")
	seqKey     = []byte("seq:todo")
)

// BadgerStore keeps todos in an embedded BadgerDB. Keys are the prefix plus
// the big-endian id, so a prefix scan yields insertion order.
type BadgerStore struct {
	db  *badger.DB
	seq *badger.Sequence
}

// OpenBadgerStore opens a persistent store in dir, or an in-memory one when
// dir is empty.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create badger directory %s: %w", dir, err)
		}
		opts = badger.DefaultOptions(dir)
	}
	opts = opts.WithLogger(nil)

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	// Leased ranges are discarded on restart, which skips ids but never
	// hands one out twice.
	seq, err := bdb.GetSequence(seqKey, 100)
	if err != nil {
		bdb.Close()
		return nil, fmt.Errorf("open id sequence: %w", err)
	}
	return &BadgerStore{db: bdb, seq: seq}, nil
}

func todoKey(id int64) []byte {
	k := make([]byte, len(todoPrefix)+8)
	copy(k, todoPrefix)
	binary.BigEndian.PutUint64(k[len(todoPrefix):], uint64(id))
	return k
}

func (b *BadgerStore) nextID() (int64, error) {
	for {
		n, err := b.seq.Next()
		if err != nil {
			return 0, err
		}
		// Sequences start at zero; ids start at one.
		if n > 0 {
			return int64(n), nil
		}
	}
}

func (b *BadgerStore) Create(_ context.Context, title string) (types.Todo, error) {
	id, err := b.nextID()
	if err != nil {
		return types.Todo{}, fmt.Errorf("failed to allocate todo id: %w", err)
	}
	t := types.Todo{ID: id, Title: title}
	val, err := json.Marshal(t)
	if err != nil {
		return types.Todo{}, err
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(todoKey(id), val)
	})
	if err != nil {
		return types.Todo{}, fmt.Errorf("failed to create todo: %w", err)
	}
	return t, nil
}

func (b *BadgerStore) List(_ context.Context) ([]types.Todo, error) {
	todos := []types.Todo{}
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = todoPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var t types.Todo
				if err := json.Unmarshal(val, &t); err != nil {
					return err
				}
				todos = append(todos, t)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// Delete runs get and delete in one transaction. A commit conflict means
// another writer touched the key first, so the check is retried against the
// newer state.
func (b *BadgerStore) Delete(_ context.Context, id int64) (bool, error) {
	for attempt := 0; ; attempt++ {
		removed := false
		err := b.db.Update(func(txn *badger.Txn) error {
			if _, err := txn.Get(todoKey(id)); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return nil
				}
				return err
			}
			removed = true
			return txn.Delete(todoKey(id))
		})
		if errors.Is(err, badger.ErrConflict) && attempt < maxConflictRetries {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("failed to delete todo: %w", err)
		}
		return removed, nil
	}
}

func (b *BadgerStore) Exists(_ context.Context, id int64) (bool, error) {
	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(todoKey(id))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check todo: %w", err)
	}
	return true, nil
}

func (b *BadgerStore) SetCompleted(_ context.Context, id int64, completed bool) (types.Todo, error) {
	var t types.Todo
	err := b.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(todoKey(id))
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &t) }); err != nil {
			return err
		}
		t.Completed = completed
		val, err := json.Marshal(t)
		if err != nil {
			return err
		}
		return txn.Set(todoKey(id), val)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return types.Todo{}, ErrNotFound
	}
	if err != nil {
		return types.Todo{}, fmt.Errorf("failed to update todo: %w", err)
	}
	return t, nil
}

func (b *BadgerStore) Close() error {
	if err := b.seq.Release(); err != nil {
		b.db.Close()
		return err
	}
	return b.db.Close()
}
