package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// Slot names used by the application. Each slot holds one JSON document.
const (
	SlotProgress    = "progress"
	SlotChatHistory = "chat_history"
)

// Slots is the key-value persistence port. The progress ledger and the
// chat session manager write through it; tests substitute MemorySlots.
type Slots interface {
	// Get returns the slot value and whether the slot exists.
	Get(name string) ([]byte, bool, error)

	// Put stores the slot value, replacing any previous value.
	Put(name string, value []byte) error

	// Delete removes the slot. Deleting a missing slot is not an error.
	Delete(name string) error
}

// SQLSlots implements Slots on the slots table.
type SQLSlots struct {
	db *sql.DB
}

func (s *SQLSlots) Get(name string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM slots WHERE name = ?`, name).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get slot %q: %w", name, err)
	}
	return value, true, nil
}

func (s *SQLSlots) Put(name string, value []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO slots (name, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		name, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put slot %q: %w", name, err)
	}
	return nil
}

func (s *SQLSlots) Delete(name string) error {
	if _, err := s.db.Exec(`DELETE FROM slots WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete slot %q: %w", name, err)
	}
	return nil
}

// MemorySlots is an in-memory Slots implementation for tests.
type MemorySlots struct {
	mu    sync.Mutex
	slots map[string][]byte

	// PutErr, when set, is returned by every Put. Lets tests exercise
	// persistence failures.
	PutErr error
}

// NewMemorySlots creates an empty in-memory slot store.
func NewMemorySlots() *MemorySlots {
	return &MemorySlots{slots: make(map[string][]byte)}
}

func (m *MemorySlots) Get(name string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.slots[name]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

func (m *MemorySlots) Put(name string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	m.slots[name] = cp
	return nil
}

func (m *MemorySlots) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, name)
	return nil
}
