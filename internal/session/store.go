// Package session holds per-user dataset state. Each session owns its own
// table and detected contrasts; sessions never share state, and nothing is
// persisted beyond process memory.
package session

import (
	"log"
	"sync"
	"time"

	"degview/domain/contrast"
	"degview/internal/table"

	"github.com/google/uuid"
)

// State is everything one session knows about its uploaded dataset. The
// table and contrast info are immutable after load; GeneColumn may change
// once when the user picks a column manually.
type State struct {
	ID       string
	Filename string

	Table    *table.Table
	Preview  *table.Table
	Contrast contrast.Info

	// GeneColumn is empty until auto-detected or chosen by the user.
	GeneColumn string

	CreatedAt  time.Time
	LastAccess time.Time
}

// HasGeneColumn reports whether views needing a gene column may proceed.
func (s *State) HasGeneColumn() bool {
	return s.GeneColumn != ""
}

// Store is an in-memory, uuid-keyed session store.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*State
	ttl      time.Duration
}

// NewStore creates a store whose sessions expire after ttl of inactivity.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*State),
		ttl:      ttl,
	}
}

// Create registers a freshly loaded dataset and returns its session state.
// The gene column is auto-resolved from the priority list when possible.
func (st *Store) Create(filename string, full, preview *table.Table) *State {
	info := contrast.Detect(full.ColumnNames())
	geneCol, _ := contrast.ResolveGeneColumn(full.ColumnNames())

	now := time.Now()
	state := &State{
		ID:         uuid.NewString(),
		Filename:   filename,
		Table:      full,
		Preview:    preview,
		Contrast:   info,
		GeneColumn: geneCol,
		CreatedAt:  now,
		LastAccess: now,
	}

	st.mu.Lock()
	st.sessions[state.ID] = state
	st.mu.Unlock()

	log.Printf("[Session] Created %s for %s (%d contrasts, gene column %q)",
		state.ID, filename, len(info.IDs), geneCol)
	return state
}

// Get returns the session and refreshes its last-access time.
func (st *Store) Get(id string) (*State, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	state, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	state.LastAccess = time.Now()
	return state, true
}

// SetGeneColumn records an explicit gene-column choice.
func (st *Store) SetGeneColumn(id, column string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	state, ok := st.sessions[id]
	if !ok {
		return false
	}
	state.GeneColumn = column
	state.LastAccess = time.Now()
	return true
}

// Delete drops a session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// CleanupExpired drops sessions idle longer than the TTL and returns how
// many were removed.
func (st *Store) CleanupExpired() int {
	cutoff := time.Now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, state := range st.sessions {
		if state.LastAccess.Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("[Session] Expired %d idle session(s)", removed)
	}
	return removed
}

// StartCleanup runs CleanupExpired on a ticker until stop is closed.
func (st *Store) StartCleanup(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				st.CleanupExpired()
			case <-stop:
				return
			}
		}
	}()
}
