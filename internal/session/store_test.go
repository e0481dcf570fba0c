package session

import (
	"testing"
	"time"

	"degview/internal/table"
	"degview/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoTable(t *testing.T) *table.Table {
	t.Helper()
	return testkit.GenerateTable(testkit.DefaultSpec())
}

// TestCreateDetectsContrastsAndGeneColumn tests session bootstrap from a
// loaded table
func TestCreateDetectsContrastsAndGeneColumn(t *testing.T) {
	store := NewStore(time.Hour)
	full := demoTable(t)

	state := store.Create("demo.csv", full, full.Head(5))
	require.NotEmpty(t, state.ID)
	assert.Equal(t, "demo.csv", state.Filename)
	assert.Len(t, state.Contrast.IDs, 3)
	assert.Equal(t, "SYMBOL", state.GeneColumn)
	assert.Equal(t, 5, state.Preview.NumRows())
}

// TestSessionsAreIsolated tests that two uploads never share state
func TestSessionsAreIsolated(t *testing.T) {
	store := NewStore(time.Hour)
	full := demoTable(t)

	s1 := store.Create("one.csv", full, full.Head(5))
	s2 := store.Create("two.csv", full, full.Head(5))

	require.NotEqual(t, s1.ID, s2.ID)
	store.SetGeneColumn(s1.ID, "TreatmentA_vs_Control_logFC")

	got2, ok := store.Get(s2.ID)
	require.True(t, ok)
	assert.Equal(t, "SYMBOL", got2.GeneColumn)
}

// TestGetUnknownSession tests the miss path
func TestGetUnknownSession(t *testing.T) {
	store := NewStore(time.Hour)
	_, ok := store.Get("nope")
	assert.False(t, ok)
}

// TestSetGeneColumn tests the explicit gene-column override
func TestSetGeneColumn(t *testing.T) {
	store := NewStore(time.Hour)
	full := demoTable(t)
	state := store.Create("demo.csv", full, full.Head(5))

	assert.True(t, store.SetGeneColumn(state.ID, "SYMBOL"))
	assert.False(t, store.SetGeneColumn("missing", "SYMBOL"))
}

// TestDelete tests session removal
func TestDelete(t *testing.T) {
	store := NewStore(time.Hour)
	full := demoTable(t)
	state := store.Create("demo.csv", full, full.Head(5))

	store.Delete(state.ID)
	_, ok := store.Get(state.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

// TestCleanupExpired tests the TTL sweep
func TestCleanupExpired(t *testing.T) {
	store := NewStore(time.Minute)
	full := demoTable(t)

	stale := store.Create("stale.csv", full, full.Head(5))
	fresh := store.Create("fresh.csv", full, full.Head(5))

	// Age the stale session past the TTL.
	store.mu.Lock()
	store.sessions[stale.ID].LastAccess = time.Now().Add(-2 * time.Minute)
	store.mu.Unlock()

	removed := store.CleanupExpired()
	assert.Equal(t, 1, removed)

	_, ok := store.Get(stale.ID)
	assert.False(t, ok)
	_, ok = store.Get(fresh.ID)
	assert.True(t, ok)
}

// TestGetRefreshesLastAccess tests that activity keeps a session alive
func TestGetRefreshesLastAccess(t *testing.T) {
	store := NewStore(time.Minute)
	full := demoTable(t)
	state := store.Create("demo.csv", full, full.Head(5))

	store.mu.Lock()
	store.sessions[state.ID].LastAccess = time.Now().Add(-2 * time.Minute)
	store.mu.Unlock()

	// Touching the session before the sweep rescues it.
	_, ok := store.Get(state.ID)
	require.True(t, ok)
	assert.Equal(t, 0, store.CleanupExpired())
}
