package deg

import (
	"math"
	"testing"

	"degview/domain/contrast"
	"degview/internal/errors"
	"degview/internal/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geneViewTable(t *testing.T) (*table.Table, contrast.Info) {
	t.Helper()
	tbl, err := table.New(
		[]string{"SYMBOL", "a_logFC", "a_adj.P.Val", "b_logFC", "b_AveExpr", "b_adj.P.Val"},
		[][]string{
			{"g1", "g2", "g1"}, // duplicate g1 on the last row
			{"1.0", "-0.5", "9.9"},
			{"0.01", "0.5", "0.0001"},
			{"3.0", "NA", "9.9"},
			{"7.5", "6.0", "9.9"},
			{"0.002", "0.8", "0.0001"},
		})
	require.NoError(t, err)
	return tbl, contrast.Detect(tbl.ColumnNames())
}

// TestGeneAcrossContrasts tests the per-gene view in detection order
func TestGeneAcrossContrasts(t *testing.T) {
	tbl, info := geneViewTable(t)

	rows, err := GeneAcrossContrasts(tbl, "SYMBOL", "g1", info)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Detection order, and the first g1 row wins over the duplicate.
	assert.Equal(t, "a", rows[0].Contrast)
	assert.Equal(t, 1.0, rows[0].LogFC)
	assert.True(t, math.IsNaN(rows[0].AveExpr)) // contrast a has no AveExpr
	assert.Equal(t, "b", rows[1].Contrast)
	assert.Equal(t, 3.0, rows[1].LogFC)
	assert.Equal(t, 7.5, rows[1].AveExpr)
}

// TestGeneAcrossContrastsUnknownGene tests the not-found path
func TestGeneAcrossContrastsUnknownGene(t *testing.T) {
	tbl, info := geneViewTable(t)

	_, err := GeneAcrossContrasts(tbl, "SYMBOL", "missing", info)
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

// TestSortByLogFCDesc tests chart ordering with NaN pushed last
func TestSortByLogFCDesc(t *testing.T) {
	rows := []GeneContrastRow{
		{Contrast: "mid", LogFC: 1.0},
		{Contrast: "nan", LogFC: math.NaN()},
		{Contrast: "high", LogFC: 3.0},
		{Contrast: "low", LogFC: -2.0},
	}

	sorted := SortByLogFCDesc(rows)
	require.Len(t, sorted, 4)
	assert.Equal(t, "high", sorted[0].Contrast)
	assert.Equal(t, "mid", sorted[1].Contrast)
	assert.Equal(t, "low", sorted[2].Contrast)
	assert.Equal(t, "nan", sorted[3].Contrast)

	// Input order untouched.
	assert.Equal(t, "mid", rows[0].Contrast)
}
