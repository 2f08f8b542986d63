// Package store defines the durable slot the item list is persisted to.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/idilsaglam/grocery/internal/model"
)

// DefaultKey names the slot holding the serialized list.
const DefaultKey = "grocery-list"

// Slot is a single durable location holding the whole item list.
// Load never fails: missing or corrupt data reads as an empty list.
type Slot interface {
	Load() []model.Item
	Save(items []model.Item) error
}

// Encode serializes the full list. A nil list is written as [].
func Encode(items []model.Item) ([]byte, error) {
	if items == nil {
		items = []model.Item{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// wireItem mirrors model.Item with a raw due date, so one bad date costs
// only that date and not the whole list.
type wireItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Completed bool            `json:"completed"`
	DueDate   json.RawMessage `json:"dueDate"`
}

// Decode parses a serialized list. Empty input decodes to an empty list.
// Unreadable due dates are dropped with a warning on log, which may be nil.
func Decode(b []byte, log *zap.Logger) ([]model.Item, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return []model.Item{}, nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	var wire []wireItem
	if err := json.Unmarshal(b, &wire); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	items := make([]model.Item, 0, len(wire))
	for _, w := range wire {
		it := model.Item{ID: w.ID, Name: w.Name, Completed: w.Completed}
		due, err := decodeDue(w.DueDate)
		if err != nil {
			log.Warn("dropping unreadable due date",
				zap.String("id", w.ID), zap.ByteString("dueDate", w.DueDate), zap.Error(err))
		}
		it.DueDate = due
		items = append(items, it)
	}
	return items, nil
}

func decodeDue(raw json.RawMessage) (*model.Date, error) {
	if len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("due date is not a string: %w", err)
	}
	return model.ParseDueDate(s)
}

// Memory keeps the encoded list in process memory.
type Memory struct {
	mu   sync.Mutex
	data []byte
	// Err, when set, is returned by every Save.
	Err error
	Log *zap.Logger
}

func (m *Memory) Load() []model.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, err := Decode(m.data, m.Log)
	if err != nil {
		return []model.Item{}
	}
	return items
}

func (m *Memory) Save(items []model.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	b, err := Encode(items)
	if err != nil {
		return err
	}
	m.data = b
	return nil
}

// Raw returns the bytes currently stored.
func (m *Memory) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// SetRaw replaces the stored bytes, bypassing the codec.
func (m *Memory) SetRaw(b []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), b...)
}
