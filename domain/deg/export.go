package deg

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"degview/internal/errors"
)

// Columns is the fixed output order of the derived table.
var Columns = []string{"gene", "logFC", "AveExpr", "padj", "neg_log10_padj"}

// WriteCSV emits the table with exactly the canonical columns. NaN cells
// serialize as empty strings, which the loader coerces back to NaN.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}
	for _, r := range t {
		record := []string{
			r.Gene,
			formatFloat(r.LogFC),
			formatFloat(r.AveExpr),
			formatFloat(r.Padj),
			formatFloat(r.NegLog10Padj),
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "failed to write CSV row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush CSV")
}

// WriteClassifiedCSV emits the table with the cat column appended, used for
// filtered exports.
func WriteClassifiedCSV(w io.Writer, rows []ClassifiedRow) error {
	cw := csv.NewWriter(w)
	header := append(append([]string{}, Columns...), "cat")
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "failed to write CSV header")
	}
	for _, r := range rows {
		record := []string{
			r.Gene,
			formatFloat(r.LogFC),
			formatFloat(r.AveExpr),
			formatFloat(r.Padj),
			formatFloat(r.NegLog10Padj),
			string(r.Category),
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, "failed to write CSV row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush CSV")
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
