package contrast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestResolveGeneColumnPriority tests that priority order beats column order
func TestResolveGeneColumnPriority(t *testing.T) {
	// gene appears first in the table, SYMBOL later; SYMBOL still wins.
	col, ok := ResolveGeneColumn([]string{"gene", "x_logFC", "SYMBOL"})
	assert.True(t, ok)
	assert.Equal(t, "SYMBOL", col)

	col, ok = ResolveGeneColumn([]string{"locus_tag", "Gene"})
	assert.True(t, ok)
	assert.Equal(t, "Gene", col)
}

// TestResolveGeneColumnCaseSensitive tests that matching is exact
func TestResolveGeneColumnCaseSensitive(t *testing.T) {
	_, ok := ResolveGeneColumn([]string{"symbol", "GENE"})
	assert.False(t, ok)
}

// TestResolveGeneColumnAbsent tests the no-candidate case
func TestResolveGeneColumnAbsent(t *testing.T) {
	col, ok := ResolveGeneColumn([]string{"id", "x_logFC", "x_adj.P.Val"})
	assert.False(t, ok)
	assert.Empty(t, col)
}
