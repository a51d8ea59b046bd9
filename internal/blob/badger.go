package blob

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	appcfg "github.com/fdg312/mealsim/internal/config"
)

// BadgerStore implements Store on an embedded BadgerDB. It keeps state on
// the local disk without any server, or purely in memory when no path is set.
type BadgerStore struct {
	db *badger.DB
}

// badgerLogger adapts Logger to BadgerDB's logger interface.
type badgerLogger struct {
	logger Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Printf("ERROR badger: "+format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Printf("WARN badger: "+format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {}

func (l badgerLogger) Debugf(format string, args ...interface{}) {}

// OpenBadgerStore opens the database at cfg.Path, creating the directory if
// needed. An empty path opens an in-memory database.
func OpenBadgerStore(cfg appcfg.BadgerConfig, logger Logger) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.Path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create badger directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path).WithSyncWrites(cfg.SyncWrites)
	}
	opts = opts.WithNumVersionsToKeep(1)

	if logger != nil {
		opts = opts.WithLogger(badgerLogger{logger: logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) PutObject(ctx context.Context, key string, data []byte, contentType string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to put object: %w", err)
	}
	return int64(len(data)), nil
}

func (s *BadgerStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("get %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	return data, nil
}

func (s *BadgerStore) DeleteObject(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
