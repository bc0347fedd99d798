package deadlines

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"dueboard/lib/deadline"

	"github.com/dgraph-io/badger/v4"
)

var collectionKey = []byte("collection")

// BadgerStore is the embedded key-value alternative to the sqlite store,
// for deployments that want a pure-Go store without sql at all. The
// document lives under a single key so saves stay atomic.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store at %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Load(ctx context.Context) (deadline.Collection, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(collectionKey)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return deadline.DefaultCollection(), nil
	}
	if err != nil {
		return deadline.Collection{}, fmt.Errorf("load collection: %w", err)
	}

	var col deadline.Collection
	err = json.Unmarshal(data, &col)
	if err != nil {
		return deadline.Collection{}, fmt.Errorf("load collection: %w", err)
	}
	if col.Items == nil {
		col.Items = []deadline.Record{}
	}
	return col, nil
}

func (s *BadgerStore) Save(ctx context.Context, col deadline.Collection) error {
	data, err := json.Marshal(col)
	if err != nil {
		return fmt.Errorf("save collection: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(collectionKey, data)
	})
	if err != nil {
		return fmt.Errorf("save collection: %w", err)
	}
	return nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger's internal chatter through slog at debug
// level so it does not drown the service logs.
type badgerLogger struct{}

func (badgerLogger) Errorf(f string, v ...interface{})   { slog.Error(fmt.Sprintf(f, v...)) }
func (badgerLogger) Warningf(f string, v ...interface{}) { slog.Warn(fmt.Sprintf(f, v...)) }
func (badgerLogger) Infof(f string, v ...interface{})    { slog.Debug(fmt.Sprintf(f, v...)) }
func (badgerLogger) Debugf(f string, v ...interface{})   { slog.Debug(fmt.Sprintf(f, v...)) }
