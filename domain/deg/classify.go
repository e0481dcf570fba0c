package deg

import (
	"math"
	"sort"
)

// Classify labels one row under the given thresholds. Equality at either
// threshold counts as significant; NaN in logFC or padj means the row
// cannot be evaluated.
func Classify(r Row, thr Thresholds) Category {
	if math.IsNaN(r.LogFC) || math.IsNaN(r.Padj) {
		return CategoryNoEval
	}
	if math.Abs(r.LogFC) >= thr.LogFC && r.Padj <= thr.Padj {
		if r.LogFC > 0 {
			return CategoryUp
		}
		return CategoryDown
	}
	return CategoryNoSig
}

// ClassifyAll labels every row, preserving order.
func ClassifyAll(t Table, thr Thresholds) []ClassifiedRow {
	rows := make([]ClassifiedRow, len(t))
	for i, r := range t {
		rows[i] = ClassifiedRow{Row: r, Category: Classify(r, thr)}
	}
	return rows
}

// CountByCategory tallies classified rows per label.
func CountByCategory(rows []ClassifiedRow) map[Category]int {
	counts := make(map[Category]int, len(Categories))
	for _, r := range rows {
		counts[r.Category]++
	}
	return counts
}

// Filter keeps the significant rows (|logFC| >= thr, padj <= thr; NaN rows
// never pass) sorted by ascending padj.
func Filter(t Table, thr Thresholds) Table {
	out := make(Table, 0, len(t))
	for _, r := range t {
		if math.Abs(r.LogFC) >= thr.LogFC && r.Padj <= thr.Padj {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Padj < out[j].Padj
	})
	return out
}

// FilterClassified is Filter plus category labels, for exports that carry
// the cat column. Every surviving row is Up or Down by construction.
func FilterClassified(t Table, thr Thresholds) []ClassifiedRow {
	filtered := Filter(t, thr)
	return ClassifyAll(filtered, thr)
}
