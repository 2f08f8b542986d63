// Package sqlitestore keeps the item list in an SQLite key-value table, one
// row per slot, the way a browser keeps it under a localStorage key.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/store"
)

const DatabaseFileName = "grocery.db"

const queryTimeout = 5 * time.Second

type Store struct {
	db  *sql.DB
	key string
	log *zap.Logger
}

// Open creates (or reuses) the database at path and the slots table.
// An empty key selects store.DefaultKey.
func Open(ctx context.Context, path, key string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if key == "" {
		key = store.DefaultKey
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps :memory: databases alive across calls.
	db.SetMaxOpenConns(1)

	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS slots (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init sqlite: %w", err)
		}
	}
	return &Store{db: db, key: key, log: log}, nil
}

func (s *Store) Load() []model.Item {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, s.key).Scan(&raw)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.Warn("load failed, starting with an empty list", zap.String("key", s.key), zap.Error(err))
		}
		return []model.Item{}
	}
	items, err := store.Decode([]byte(raw), s.log)
	if err != nil {
		s.log.Warn("corrupt slot, starting with an empty list", zap.String("key", s.key), zap.Error(err))
		return []model.Item{}
	}
	return items
}

func (s *Store) Save(items []model.Item) error {
	b, err := store.Encode(items)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO slots (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		s.key, string(b))
	if err != nil {
		return fmt.Errorf("save slot %s: %w", s.key, err)
	}
	s.log.Debug("saved list", zap.String("key", s.key), zap.Int("items", len(items)))
	return nil
}

// Raw returns the stored text for the slot, for diagnostics.
func (s *Store) Raw(ctx context.Context) (string, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, s.key).Scan(&raw)
	if err != nil {
		return "", err
	}
	return raw, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
