// internal/store/memory.go
//
// In-memory session store for game engines.
// Boards live only as long as the process; nothing here is resumable.
//
// Characteristics:
//   - Stores *game.Engine values keyed by Engine.ID.
//   - Concurrency-safe via RWMutex: View runs under a read lock, Update under
//     the write lock, so every engine transition runs to completion alone.
//     Engines are never handed out outside those callbacks.
//   - Save and Update stamp a last-touched time; Evict drops boards idle
//     longer than a given duration.
//   - ErrNotFound is returned for unknown game IDs.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/rubberband/internal/game"
)

// ErrNotFound is returned when no game with the requested ID exists.
var ErrNotFound = errors.New("not found")

// Store defines the session interface for live games.
type Store interface {
	// Save adds or replaces a game.
	Save(ctx context.Context, g *game.Engine) error

	// View runs fn with shared access to the game.
	View(ctx context.Context, id string, fn func(g *game.Engine) error) error

	// Update runs fn with exclusive access to the game.
	Update(ctx context.Context, id string, fn func(g *game.Engine) error) error

	// Delete removes a game; deleting a missing game is not an error.
	Delete(ctx context.Context, id string) error

	// Evict removes every game not saved or updated within idle and
	// returns the removed IDs.
	Evict(ctx context.Context, idle time.Duration) ([]string, error)

	// Len reports how many games are held.
	Len() int
}

type entry struct {
	g       *game.Engine
	touched time.Time
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex      // guards games and every engine in it
	games map[string]*entry // keyed by Engine.ID
	now   func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store { return NewMemoryStoreWithClock(time.Now) }

// NewMemoryStoreWithClock is NewMemoryStore with an explicit clock for
// last-touched stamps.
func NewMemoryStoreWithClock(now func() time.Time) Store {
	return &memory{games: make(map[string]*entry), now: now}
}

func (m *memory) Save(ctx context.Context, g *game.Engine) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if g == nil || g.ID == "" {
		return errors.New("store: game without id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = &entry{g: g, touched: m.now()}
	return nil
}

func (m *memory) View(ctx context.Context, id string, fn func(g *game.Engine) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.games[id]
	if !ok {
		return ErrNotFound
	}
	return fn(e.g)
}

func (m *memory) Update(ctx context.Context, id string, fn func(g *game.Engine) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.games[id]
	if !ok {
		return ErrNotFound
	}
	e.touched = m.now()
	return fn(e.g)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}

func (m *memory) Evict(ctx context.Context, idle time.Duration) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cutoff := m.now().Add(-idle)
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed []string
	for id, e := range m.games {
		if e.touched.Before(cutoff) {
			delete(m.games, id)
			removed = append(removed, id)
		}
	}
	return removed, nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
