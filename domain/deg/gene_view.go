package deg

import (
	"math"
	"sort"

	"degview/domain/contrast"
	"degview/internal/errors"
	"degview/internal/table"
)

// GeneContrastRow is one contrast's values for a single gene.
type GeneContrastRow struct {
	Contrast    string
	DisplayName string
	LogFC       float64
	AveExpr     float64
	Padj        float64
}

// GeneAcrossContrasts collects one row per detected contrast for the given
// gene, in detection order. When the gene column holds duplicates the first
// occurrence wins. Missing role columns surface as NaN.
func GeneAcrossContrasts(tbl *table.Table, geneCol, gene string, info contrast.Info) ([]GeneContrastRow, error) {
	if !tbl.HasColumn(geneCol) {
		return nil, errors.InvalidInput("gene column " + geneCol + " does not exist")
	}

	rowIdx := tbl.FindRow(geneCol, gene)
	if rowIdx < 0 {
		return nil, errors.NotFound("gene " + gene)
	}

	rows := make([]GeneContrastRow, 0, len(info.IDs))
	for _, id := range info.IDs {
		roles := info.Roles[id]
		rows = append(rows, GeneContrastRow{
			Contrast:    id,
			DisplayName: contrast.DisplayName(id),
			LogFC:       cellFloat(tbl, roles.LogFC, rowIdx),
			AveExpr:     cellFloat(tbl, roles.AveExpr, rowIdx),
			Padj:        cellFloat(tbl, roles.PadjColumn(), rowIdx),
		})
	}
	return rows, nil
}

// SortByLogFCDesc orders rows for the per-gene bar chart: descending logFC,
// NaN values last.
func SortByLogFCDesc(rows []GeneContrastRow) []GeneContrastRow {
	sorted := append([]GeneContrastRow{}, rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].LogFC, sorted[j].LogFC
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a > b
	})
	return sorted
}

func cellFloat(tbl *table.Table, column string, row int) float64 {
	if column == "" {
		return math.NaN()
	}
	cells, ok := tbl.Column(column)
	if !ok || row >= len(cells) {
		return math.NaN()
	}
	return table.CoerceFloat(cells[row])
}
