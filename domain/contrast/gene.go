package contrast

// geneColumnCandidates is the fixed priority list of conventional gene
// identifier column names. Matching is case-sensitive and priority order
// wins over column order.
var geneColumnCandidates = []string{
	"SYMBOL",
	"gene_id",
	"Geneid",
	"GeneID",
	"gene",
	"Gene",
	"locus_tag",
}

// ResolveGeneColumn picks the gene identifier column from the available
// column names. When no candidate is present the caller must obtain an
// explicit user choice before proceeding.
func ResolveGeneColumn(columnNames []string) (string, bool) {
	present := make(map[string]bool, len(columnNames))
	for _, col := range columnNames {
		present[col] = true
	}

	for _, candidate := range geneColumnCandidates {
		if present[candidate] {
			return candidate, true
		}
	}
	return "", false
}
