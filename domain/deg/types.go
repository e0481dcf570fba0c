// Package deg builds and classifies per-contrast differential-expression
// tables from a loaded dataset.
package deg

import "math"

// Row is one gene in the canonical five-column derived table. NaN marks
// missing or uncoercible values; callers serializing rows must map NaN to
// null themselves (see api and ui).
type Row struct {
	Gene         string
	LogFC        float64
	AveExpr      float64
	Padj         float64
	NegLog10Padj float64
}

// Table is the ordered per-contrast derived table. It is ephemeral: rebuilt
// on every contrast or threshold change, never persisted.
type Table []Row

// Category labels a row's significance classification.
type Category string

const (
	CategoryUp     Category = "Up"
	CategoryDown   Category = "Down"
	CategoryNoSig  Category = "No sig"
	CategoryNoEval Category = "No eval"
)

// Categories lists all labels in display order.
var Categories = []Category{CategoryUp, CategoryDown, CategoryNoSig, CategoryNoEval}

// Thresholds holds the two user-controlled significance cutoffs.
type Thresholds struct {
	LogFC float64 `json:"thr_logfc"`
	Padj  float64 `json:"thr_padj"`
}

// DefaultThresholds matches the UI defaults: |logFC| >= 1, padj <= 0.05.
func DefaultThresholds() Thresholds {
	return Thresholds{LogFC: 1.0, Padj: 0.05}
}

// Valid reports whether the thresholds are inside their control ranges.
func (t Thresholds) Valid() bool {
	return t.LogFC >= 0 && t.LogFC <= 10 && t.Padj >= 0 && t.Padj <= 1
}

// ClassifiedRow is a Row plus its category under some thresholds.
type ClassifiedRow struct {
	Row
	Category Category
}

// minPadj is the clamp floor for the -log10 transform; padj values at or
// below it (including 0 and negatives) map to exactly 300.
const minPadj = 1e-300

// NegLog10Padj computes -log10(clamp(padj, 1e-300, 1.0)). NaN passes
// through as NaN rather than being clamped to a finite value.
func NegLog10Padj(padj float64) float64 {
	if math.IsNaN(padj) {
		return math.NaN()
	}
	if padj < minPadj {
		padj = minPadj
	}
	if padj > 1 {
		padj = 1
	}
	return -math.Log10(padj)
}
