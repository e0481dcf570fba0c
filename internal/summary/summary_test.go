package summary

import (
	"math"
	"testing"

	"degview/domain/contrast"
	"degview/domain/deg"
	"degview/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func degRow(gene string, logFC, padj float64) deg.Row {
	return deg.Row{Gene: gene, LogFC: logFC, AveExpr: 5, Padj: padj, NegLog10Padj: deg.NegLog10Padj(padj)}
}

// TestSummarizeCounts tests the category tallies and evaluated count
func TestSummarizeCounts(t *testing.T) {
	table := deg.Table{
		degRow("up", 2, 0.01),
		degRow("down", -2, 0.01),
		degRow("nosig", 0.1, 0.9),
		degRow("noeval", math.NaN(), 0.5),
	}

	s := Summarize("PRJNA862789_mouse_heart_vs_liver", table, deg.DefaultThresholds())
	assert.Equal(t, "heart_vs_liver", s.DisplayName)
	assert.Equal(t, 4, s.Genes)
	assert.Equal(t, 3, s.Evaluated)
	assert.Equal(t, 1, s.Up)
	assert.Equal(t, 1, s.Down)
	assert.Equal(t, 1, s.NoSig)
	assert.Equal(t, 1, s.NoEval)
}

// TestSummarizeMoments tests the logFC distribution statistics
func TestSummarizeMoments(t *testing.T) {
	table := deg.Table{
		degRow("a", 1, 0.5),
		degRow("b", 2, 0.2),
		degRow("c", 3, 0.1),
		degRow("d", 4, 0.4),
		degRow("e", math.NaN(), 0.3), // excluded from moments
	}

	s := Summarize("c1", table, deg.DefaultThresholds())
	assert.InDelta(t, 2.5, float64(s.MeanLogFC), 1e-9)
	assert.InDelta(t, 2.5, float64(s.MedianLogFC), 1e-9)
	assert.InDelta(t, 0.1, float64(s.MinPadj), 1e-9)
	assert.False(t, math.IsNaN(float64(s.StdDevLogFC)))
	assert.False(t, math.IsNaN(float64(s.Skewness)))
}

// TestSummarizeEmptyDistribution tests that an all-NaN contrast yields NaN
// moments without panicking
func TestSummarizeEmptyDistribution(t *testing.T) {
	table := deg.Table{
		degRow("a", math.NaN(), math.NaN()),
		degRow("b", math.NaN(), math.NaN()),
	}

	s := Summarize("c1", table, deg.DefaultThresholds())
	assert.Equal(t, 2, s.Genes)
	assert.Equal(t, 0, s.Evaluated)
	assert.True(t, math.IsNaN(float64(s.MeanLogFC)))
	assert.True(t, math.IsNaN(float64(s.MinPadj)))
}

// TestSummarizeTailFractions tests the normal-fit tail comparison on a
// synthetic dataset large enough for a stable fit
func TestSummarizeTailFractions(t *testing.T) {
	spec := testkit.DefaultSpec()
	tbl := testkit.GenerateTable(spec)
	info := contrast.Detect(tbl.ColumnNames())
	require.NotEmpty(t, info.IDs)

	built, err := deg.Build(tbl, spec.GeneColumn, info.IDs[0], info)
	require.NoError(t, err)

	s := Summarize(info.IDs[0], built, deg.DefaultThresholds())
	observed := float64(s.ObservedTailFrac)
	expected := float64(s.ExpectedTailFrac)

	assert.GreaterOrEqual(t, observed, 0.0)
	assert.LessOrEqual(t, observed, 1.0)
	assert.Greater(t, expected, 0.0)
	assert.Less(t, expected, 0.2)
}

// TestSummarizeAll tests dataset-wide summaries in detection order
func TestSummarizeAll(t *testing.T) {
	spec := testkit.DefaultSpec()
	tbl := testkit.GenerateTable(spec)
	info := contrast.Detect(tbl.ColumnNames())

	summaries := SummarizeAll(info, deg.DefaultThresholds(), func(id string) (deg.Table, error) {
		return deg.Build(tbl, spec.GeneColumn, id, info)
	})

	require.Len(t, summaries, len(info.IDs))
	for i, s := range summaries {
		assert.Equal(t, info.IDs[i], s.Contrast)
		assert.Equal(t, spec.Genes, s.Genes)
	}
}
