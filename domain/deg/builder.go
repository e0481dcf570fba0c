package deg

import (
	"math"

	"degview/domain/contrast"
	"degview/internal/errors"
	"degview/internal/table"
)

// Build derives the canonical per-contrast table from a loaded dataset.
// The detected role columns are renamed to gene/logFC/AveExpr/padj; a
// missing AveExpr column is filled with NaN, and when only a raw p-value
// was detected it is carried under the padj name. Numeric coercion turns
// non-numeric cells into NaN instead of failing.
func Build(tbl *table.Table, geneCol, contrastID string, info contrast.Info) (Table, error) {
	roles, ok := info.Get(contrastID)
	if !ok {
		return nil, errors.NotFound("contrast " + contrastID)
	}

	genes, ok := tbl.Column(geneCol)
	if !ok {
		return nil, errors.InvalidInput("gene column " + geneCol + " does not exist")
	}

	logFC, ok := tbl.NumericColumn(roles.LogFC)
	if !ok {
		return nil, errors.InvalidInput("logFC column " + roles.LogFC + " does not exist")
	}

	padj, ok := tbl.NumericColumn(roles.PadjColumn())
	if !ok {
		return nil, errors.InvalidInput("p-value column " + roles.PadjColumn() + " does not exist")
	}

	var aveExpr []float64
	if roles.AveExpr != "" {
		aveExpr, _ = tbl.NumericColumn(roles.AveExpr)
	}

	rows := make(Table, tbl.NumRows())
	for i := range rows {
		ave := math.NaN()
		if aveExpr != nil {
			ave = aveExpr[i]
		}
		rows[i] = Row{
			Gene:         genes[i],
			LogFC:        logFC[i],
			AveExpr:      ave,
			Padj:         padj[i],
			NegLog10Padj: NegLog10Padj(padj[i]),
		}
	}
	return rows, nil
}
