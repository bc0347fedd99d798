package deadlines

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"dueboard/lib/deadline"
)

// SqliteStore keeps the collection as one json document row.
type SqliteStore struct {
	db *sql.DB
}

func NewSqliteStore(database *sql.DB) SqliteStore {
	return SqliteStore{db: database}
}

func (s SqliteStore) Load(ctx context.Context) (deadline.Collection, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM collection WHERE id = 0").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
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

func (s SqliteStore) Save(ctx context.Context, col deadline.Collection) error {
	data, err := json.Marshal(col)
	if err != nil {
		return fmt.Errorf("save collection: %w", err)
	}
	_, err = s.db.ExecContext(
		ctx,
		"INSERT INTO collection (id, data) VALUES (0, ?) ON CONFLICT (id) DO UPDATE SET data = excluded.data",
		data,
	)
	if err != nil {
		return fmt.Errorf("save collection: %w", err)
	}
	return nil
}

func (s SqliteStore) Close() error {
	return s.db.Close()
}
