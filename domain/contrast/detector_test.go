package contrast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDetectValidContrast tests that a logFC + adj.P.Val pair forms a contrast
func TestDetectValidContrast(t *testing.T) {
	info := Detect([]string{
		"SYMBOL",
		"heart_vs_liver_logFC",
		"heart_vs_liver_AveExpr",
		"heart_vs_liver_adj.P.Val",
	})

	require.Equal(t, []string{"heart_vs_liver"}, info.IDs)
	roles := info.Roles["heart_vs_liver"]
	assert.Equal(t, "heart_vs_liver_logFC", roles.LogFC)
	assert.Equal(t, "heart_vs_liver_AveExpr", roles.AveExpr)
	assert.Equal(t, "heart_vs_liver_adj.P.Val", roles.AdjP)
	assert.Equal(t, "heart_vs_liver_adj.P.Val", roles.PadjColumn())
}

// TestDetectRequiresLogFCAndPValue tests that incomplete column sets are
// dropped
func TestDetectRequiresLogFCAndPValue(t *testing.T) {
	// logFC without any p-value column
	info := Detect([]string{"a_logFC", "a_AveExpr"})
	assert.True(t, info.Empty())

	// p-value without logFC
	info = Detect([]string{"b_adj.P.Val"})
	assert.True(t, info.Empty())

	// AveExpr alone registers nothing
	info = Detect([]string{"c_AveExpr"})
	assert.True(t, info.Empty())
}

// TestDetectRawPValueFallback tests that P.Value alone satisfies the
// p-value requirement and is returned by PadjColumn
func TestDetectRawPValueFallback(t *testing.T) {
	info := Detect([]string{"trt_logFC", "trt_P.Value"})

	require.Equal(t, []string{"trt"}, info.IDs)
	roles := info.Roles["trt"]
	assert.Empty(t, roles.AdjP)
	assert.Equal(t, "trt_P.Value", roles.P)
	assert.Equal(t, "trt_P.Value", roles.PadjColumn())
}

// TestDetectAdjPPreferredOverRawP tests that when both p-value columns
// exist, the adjusted one wins
func TestDetectAdjPPreferredOverRawP(t *testing.T) {
	info := Detect([]string{"x_logFC", "x_P.Value", "x_adj.P.Val"})

	roles := info.Roles["x"]
	assert.Equal(t, "x_adj.P.Val", roles.AdjP)
	assert.Equal(t, "x_P.Value", roles.P)
	assert.Equal(t, "x_adj.P.Val", roles.PadjColumn())
}

// TestDetectCaseInsensitiveSuffixes tests that suffix matching ignores case
// while the prefix keeps its original form
func TestDetectCaseInsensitiveSuffixes(t *testing.T) {
	info := Detect([]string{"Heart_LOGFC", "Heart_ADJ.P.VAL"})

	require.Equal(t, []string{"Heart"}, info.IDs)
	roles := info.Roles["Heart"]
	assert.Equal(t, "Heart_LOGFC", roles.LogFC)
	assert.Equal(t, "Heart_ADJ.P.VAL", roles.AdjP)
}

// TestDetectPreservesFirstSeenOrder tests that contrasts come back in the
// order their columns first appear, not sorted
func TestDetectPreservesFirstSeenOrder(t *testing.T) {
	info := Detect([]string{
		"zebra_logFC", "zebra_adj.P.Val",
		"apple_logFC", "apple_adj.P.Val",
		"mango_logFC", "mango_adj.P.Val",
	})

	assert.Equal(t, []string{"zebra", "apple", "mango"}, info.IDs)
}

// TestDetectOrderIndependentWithinContrast tests that a contrast forms no
// matter which of its columns appears first
func TestDetectOrderIndependentWithinContrast(t *testing.T) {
	info := Detect([]string{"a_adj.P.Val", "b_logFC", "a_logFC", "b_adj.P.Val"})

	assert.ElementsMatch(t, []string{"a", "b"}, info.IDs)
	assert.Equal(t, []string{"a", "b"}, info.IDs)
}

// TestDetectIgnoresUnrelatedColumns tests that ordinary columns never form
// contrasts
func TestDetectIgnoresUnrelatedColumns(t *testing.T) {
	info := Detect([]string{"SYMBOL", "description", "length", "logFC"})
	assert.True(t, info.Empty())
}

// TestDetectNonGreedyPrefix tests prefixes containing underscores
func TestDetectNonGreedyPrefix(t *testing.T) {
	info := Detect([]string{
		"PRJNA862789_mouse_heart_vs_liver_logFC",
		"PRJNA862789_mouse_heart_vs_liver_adj.P.Val",
	})

	require.Len(t, info.IDs, 1)
	assert.Equal(t, "PRJNA862789_mouse_heart_vs_liver", info.IDs[0])
}
