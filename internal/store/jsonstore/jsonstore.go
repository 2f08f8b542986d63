package jsonstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/idilsaglam/grocery/internal/model"
	"github.com/idilsaglam/grocery/internal/store"
)

// JSON-backed storage. Single file, human-readable, portable.
// Writes go through a temp file + rename so readers never see half a list.

const DataFileName = store.DefaultKey + ".json"

type Store struct {
	Path string
	Log  *zap.Logger
}

// New returns a slot backed by dir/grocery-list.json.
func New(dir string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{Path: filepath.Join(dir, DataFileName), Log: log}
}

func (s *Store) Load() []model.Item {
	items, err := s.read()
	if err != nil {
		s.logger().Warn("load failed, starting with an empty list",
			zap.String("path", s.Path), zap.Error(err))
		return []model.Item{}
	}
	return items
}

func (s *Store) read() ([]model.Item, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Item{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return store.Decode(b, s.logger())
}

func (s *Store) Save(items []model.Item) error {
	b, err := store.Encode(items)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	s.logger().Debug("saved list", zap.String("path", s.Path), zap.Int("items", len(items)))
	return nil
}

func (s *Store) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
