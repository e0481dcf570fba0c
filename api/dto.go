package api

import (
	"degview/domain/deg"
	"degview/internal/jsonx"
)

// degRowJSON is the wire shape of a derived-table row; NaN cells become
// null.
type degRowJSON struct {
	Gene         string      `json:"gene"`
	LogFC        jsonx.Float `json:"logfc"`
	AveExpr      jsonx.Float `json:"aveexpr"`
	Padj         jsonx.Float `json:"padj"`
	NegLog10Padj jsonx.Float `json:"neg_log10_padj"`
	Cat          string      `json:"cat"`
}

func degRowsJSON(rows []deg.ClassifiedRow) []degRowJSON {
	out := make([]degRowJSON, len(rows))
	for i, r := range rows {
		out[i] = degRowJSON{
			Gene:         r.Gene,
			LogFC:        jsonx.Float(r.LogFC),
			AveExpr:      jsonx.Float(r.AveExpr),
			Padj:         jsonx.Float(r.Padj),
			NegLog10Padj: jsonx.Float(r.NegLog10Padj),
			Cat:          string(r.Category),
		}
	}
	return out
}

// geneRowJSON is the wire shape of one contrast's values for a gene.
type geneRowJSON struct {
	Contrast    string      `json:"contrast"`
	DisplayName string      `json:"display_name"`
	LogFC       jsonx.Float `json:"logfc"`
	AveExpr     jsonx.Float `json:"aveexpr"`
	Padj        jsonx.Float `json:"padj"`
}

func geneRowsJSON(rows []deg.GeneContrastRow) []geneRowJSON {
	out := make([]geneRowJSON, len(rows))
	for i, r := range rows {
		out[i] = geneRowJSON{
			Contrast:    r.Contrast,
			DisplayName: r.DisplayName,
			LogFC:       jsonx.Float(r.LogFC),
			AveExpr:     jsonx.Float(r.AveExpr),
			Padj:        jsonx.Float(r.Padj),
		}
	}
	return out
}
