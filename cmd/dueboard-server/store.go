package main

import (
	"fmt"

	"dueboard/lib/sqliteutil"
	"dueboard/services/deadlines"
	"dueboard/services/deadlines/db"
)

type StoreConfig struct {
	// "sqlite" (default) or "badger"
	Backend string `json:"backend"`
	Path    string `json:"path"`
}

func OpenStore(cfg StoreConfig) (deadlines.Store, error) {
	path := cfg.Path
	if path == "" {
		path = "data/dueboard.db"
	}

	switch cfg.Backend {
	case "", "sqlite":
		sqldb, err := sqliteutil.OpenDB(db.Schema, path)
		if err != nil {
			return nil, err
		}
		return deadlines.NewSqliteStore(sqldb), nil
	case "badger":
		return deadlines.NewBadgerStore(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
