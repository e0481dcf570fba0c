package testkit

import (
	"testing"

	"degview/domain/contrast"
	"degview/internal/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerateTableShape tests the synthetic dataset structure
func TestGenerateTableShape(t *testing.T) {
	spec := DefaultSpec()
	tbl := GenerateTable(spec)

	assert.Equal(t, spec.Genes, tbl.NumRows())

	info := contrast.Detect(tbl.ColumnNames())
	require.Len(t, info.IDs, len(spec.Contrasts))
	assert.Equal(t, spec.Contrasts, info.IDs)

	// The raw-P-only contrast exercises the adjP fallback.
	roles := info.Roles["TreatmentA_vs_Control"]
	assert.Empty(t, roles.AdjP)
	assert.Equal(t, "TreatmentA_vs_Control_P.Value", roles.PadjColumn())

	geneCol, ok := contrast.ResolveGeneColumn(tbl.ColumnNames())
	require.True(t, ok)
	assert.Equal(t, spec.GeneColumn, geneCol)
}

// TestGenerateDeterministic tests that the seed fixes the output
func TestGenerateDeterministic(t *testing.T) {
	spec := DefaultSpec()
	assert.Equal(t, GenerateCSV(spec), GenerateCSV(spec))
}

// TestGenerateCSVLoads tests that the CSV rendering round-trips through the
// loader
func TestGenerateCSVLoads(t *testing.T) {
	spec := DefaultSpec()
	content := GenerateCSV(spec)

	full, preview, err := table.Load(content, "demo.csv", table.SepAuto, 10)
	require.NoError(t, err)
	assert.Equal(t, spec.Genes, full.NumRows())
	assert.Equal(t, 10, preview.NumRows())

	info := contrast.Detect(full.ColumnNames())
	assert.Len(t, info.IDs, len(spec.Contrasts))
}

// TestSpecWithCounts tests demo-mode scaling
func TestSpecWithCounts(t *testing.T) {
	spec := SpecWithCounts(50, 5)
	assert.Equal(t, 50, spec.Genes)
	assert.Len(t, spec.Contrasts, 5)

	tbl := GenerateTable(spec)
	info := contrast.Detect(tbl.ColumnNames())
	assert.Len(t, info.IDs, 5)
}
