// internal/store/memory.go
//
// In-memory registry of live game sessions.
//
// Characteristics:
//   - Stores entries keyed by session ID in a map.
//   - Concurrency-safe via RWMutex; Update runs its callback under the write lock,
//     which is what serializes access to a single *game.Session.
//   - State is lost when the process restarts; finished games go to SQLite.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/palavramestre/internal/game"
)

// ErrNotFound is returned for unknown IDs.
var ErrNotFound = errors.New("not found")

// Mode values for Entry.Mode.
const (
	ModeClassic = "classic"
	ModeDaily   = "daily"
)

// Entry is a live session plus the hosting metadata the core does not track.
type Entry struct {
	Session  *game.Session
	Mode     string // ModeClassic | ModeDaily
	Date     string // daily date key, empty for classic
	UserID   string // empty for guests
	Recorded bool   // result already written to SQLite
}

// Sessions is the live-session registry used by the HTTP layer.
type Sessions interface {
	// Save inserts or replaces an entry.
	Save(ctx context.Context, e *Entry) error

	// Update runs fn with exclusive access to the entry.
	Update(ctx context.Context, id string, fn func(*Entry) error) error

	// Evict removes every entry for which expired returns true and reports
	// how many were removed.
	Evict(ctx context.Context, expired func(*Entry) bool) int
}

type memory struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryStore constructs an empty in-memory Sessions registry.
func NewMemoryStore() Sessions {
	return &memory{entries: make(map[string]*Entry)}
}

func (m *memory) Save(ctx context.Context, e *Entry) error {
	if e == nil || e.Session == nil {
		return errors.New("store: nil session")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.Session.ID] = e
	return nil
}

func (m *memory) Update(ctx context.Context, id string, fn func(*Entry) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return ErrNotFound
	}
	return fn(e)
}

func (m *memory) Evict(ctx context.Context, expired func(*Entry) bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.entries {
		if expired(e) {
			delete(m.entries, id)
			n++
		}
	}
	return n
}
