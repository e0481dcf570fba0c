// Package contrast discovers experimental contrasts from the column-naming
// convention of differential-expression tables. All stringly-typed column
// matching is confined here; downstream code works against Info records.
package contrast

// Roles holds the column names detected for one contrast. Empty string means
// the role was not present in the dataset.
type Roles struct {
	LogFC   string `json:"logfc"`
	AveExpr string `json:"aveexpr"`
	AdjP    string `json:"adjp"`
	P       string `json:"p"`
}

// PadjColumn returns the column to use as the adjusted p-value: the adjusted
// column when detected, otherwise the raw one. The raw/adjusted distinction
// is not preserved past this point.
func (r Roles) PadjColumn() string {
	if r.AdjP != "" {
		return r.AdjP
	}
	return r.P
}

// Info maps contrast identifiers to their detected role columns, preserving
// first-seen order of the identifiers.
type Info struct {
	IDs   []string         `json:"ids"`
	Roles map[string]Roles `json:"roles"`
}

// Empty reports whether no contrasts were detected.
func (i Info) Empty() bool {
	return len(i.IDs) == 0
}

// Get returns the roles for a contrast identifier.
func (i Info) Get(id string) (Roles, bool) {
	roles, ok := i.Roles[id]
	return roles, ok
}
