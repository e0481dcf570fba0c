// Package testkit generates synthetic differential-expression datasets for
// tests and for the UI demo mode, so the app renders without an upload.
package testkit

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"degview/internal/table"
)

// DatasetSpec controls the synthetic dataset shape.
type DatasetSpec struct {
	Genes      int
	Contrasts  []string
	GeneColumn string
	Seed       int64

	// RawPValueOnly lists contrasts emitted with only a raw P.Value column,
	// exercising the adjP fallback path.
	RawPValueOnly map[string]bool

	// MessyCells injects empty and non-numeric cells to exercise NaN
	// coercion.
	MessyCells bool
}

// DefaultSpec returns a deterministic three-contrast dataset.
func DefaultSpec() DatasetSpec {
	return DatasetSpec{
		Genes: 200,
		Contrasts: []string{
			"PRJNA862789_mouse_heart_vs_liver",
			"PRJNA862789_mouse_kidney_vs_liver",
			"TreatmentA_vs_Control",
		},
		GeneColumn:    "SYMBOL",
		Seed:          42,
		RawPValueOnly: map[string]bool{"TreatmentA_vs_Control": true},
		MessyCells:    true,
	}
}

// SpecWithCounts scales the default spec to the requested size.
func SpecWithCounts(genes, contrasts int) DatasetSpec {
	spec := DefaultSpec()
	if genes > 0 {
		spec.Genes = genes
	}
	if contrasts > 0 && contrasts != len(spec.Contrasts) {
		names := make([]string, contrasts)
		for i := range names {
			names[i] = fmt.Sprintf("PRJNA862789_mouse_tissue%02d_vs_liver", i+1)
		}
		spec.Contrasts = names
		spec.RawPValueOnly = nil
	}
	return spec
}

// GenerateTable builds the synthetic dataset as a loaded table.
func GenerateTable(spec DatasetSpec) *table.Table {
	names, cells := generateColumns(spec)
	t, err := table.New(names, cells)
	if err != nil {
		// The generator always produces aligned columns.
		panic(err)
	}
	return t
}

// GenerateCSV renders the synthetic dataset as CSV bytes, ready for Load.
func GenerateCSV(spec DatasetSpec) []byte {
	names, cells := generateColumns(spec)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(names)
	rows := 0
	if len(cells) > 0 {
		rows = len(cells[0])
	}
	for r := 0; r < rows; r++ {
		record := make([]string, len(cells))
		for c := range cells {
			record[c] = cells[c][r]
		}
		_ = w.Write(record)
	}
	w.Flush()
	return buf.Bytes()
}

func generateColumns(spec DatasetSpec) ([]string, [][]string) {
	rng := rand.New(rand.NewSource(spec.Seed))

	names := []string{spec.GeneColumn}
	genes := make([]string, spec.Genes)
	for i := range genes {
		genes[i] = fmt.Sprintf("GENE%04d", i+1)
	}
	cells := [][]string{genes}

	for _, contrast := range spec.Contrasts {
		logFC := make([]string, spec.Genes)
		aveExpr := make([]string, spec.Genes)
		pval := make([]string, spec.Genes)

		for i := 0; i < spec.Genes; i++ {
			fc := rng.NormFloat64() * 1.5
			logFC[i] = formatValue(fc)
			aveExpr[i] = formatValue(4 + rng.Float64()*8)

			// Strong effects get small p-values so thresholds have
			// something to find.
			p := rng.Float64()
			if math.Abs(fc) > 1.5 {
				p = rng.Float64() * 0.04
			}
			pval[i] = formatValue(p)
		}

		if spec.MessyCells && spec.Genes > 10 {
			logFC[3] = "not_a_number"
			pval[5] = ""
			aveExpr[7] = "NA"
		}

		names = append(names, contrast+"_logFC", contrast+"_AveExpr")
		cells = append(cells, logFC, aveExpr)
		if spec.RawPValueOnly[contrast] {
			names = append(names, contrast+"_P.Value")
		} else {
			names = append(names, contrast+"_adj.P.Val")
		}
		cells = append(cells, pval)
	}

	return names, cells
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
