package table

import (
	"fmt"
	"sort"
)

// Table is an ordered collection of named string columns sharing one row
// count. It is the in-memory representation of one uploaded dataset and is
// treated as immutable after loading.
type Table struct {
	names  []string
	cells  [][]string // column-major, aligned with names
	byName map[string]int
}

// New builds a table from ordered column names and column-major cells.
// Duplicate names are deduplicated with ".1", ".2"... suffixes so every
// column stays addressable; short columns are padded with empty cells.
func New(names []string, cells [][]string) (*Table, error) {
	if len(names) != len(cells) {
		return nil, fmt.Errorf("column name/cell count mismatch: %d names, %d columns", len(names), len(cells))
	}

	rows := 0
	for _, col := range cells {
		if len(col) > rows {
			rows = len(col)
		}
	}

	t := &Table{
		names:  make([]string, len(names)),
		cells:  make([][]string, len(cells)),
		byName: make(map[string]int, len(names)),
	}

	used := make(map[string]bool, len(names))
	counts := make(map[string]int, len(names))
	for i, name := range names {
		// A generated suffix can itself collide with a literal header like
		// "a.1", so keep counting until the name is free.
		unique := name
		for used[unique] {
			counts[name]++
			unique = fmt.Sprintf("%s.%d", name, counts[name])
		}
		used[unique] = true

		col := make([]string, rows)
		copy(col, cells[i])

		t.names[i] = unique
		t.cells[i] = col
		t.byName[unique] = i
	}

	return t, nil
}

// ColumnNames returns the ordered column names as a copy.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.names))
	copy(names, t.names)
	return names
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// Column returns the cells of the named column. The returned slice is shared
// with the table and must not be mutated.
func (t *Table) Column(name string) ([]string, bool) {
	idx, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.cells[idx], true
}

// NumericColumn returns the named column coerced to float64, with
// unparseable or empty cells mapped to NaN.
func (t *Table) NumericColumn(name string) ([]float64, bool) {
	cells, ok := t.Column(name)
	if !ok {
		return nil, false
	}
	return CoerceNumeric(cells), true
}

// Row returns the cells of row i in column order.
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.cells))
	for c := range t.cells {
		row[c] = t.cells[c][i]
	}
	return row
}

// NumRows returns the shared row count.
func (t *Table) NumRows() int {
	if len(t.cells) == 0 {
		return 0
	}
	return len(t.cells[0])
}

// NumCols returns the column count.
func (t *Table) NumCols() int {
	return len(t.names)
}

// Head returns a deep copy of the first n rows, so preview tables never
// alias the full table.
func (t *Table) Head(n int) *Table {
	if n > t.NumRows() {
		n = t.NumRows()
	}
	if n < 0 {
		n = 0
	}

	names := make([]string, len(t.names))
	copy(names, t.names)

	cells := make([][]string, len(t.cells))
	for i, col := range t.cells {
		head := make([]string, n)
		copy(head, col[:n])
		cells[i] = head
	}

	copyTable := &Table{
		names:  names,
		cells:  cells,
		byName: make(map[string]int, len(names)),
	}
	for i, name := range names {
		copyTable.byName[name] = i
	}
	return copyTable
}

// DistinctValues returns the sorted distinct non-empty values of a column,
// or nil if the column does not exist.
func (t *Table) DistinctValues(name string) []string {
	cells, ok := t.Column(name)
	if !ok {
		return nil
	}

	seen := make(map[string]bool, len(cells))
	values := make([]string, 0, len(cells))
	for _, cell := range cells {
		if cell == "" || seen[cell] {
			continue
		}
		seen[cell] = true
		values = append(values, cell)
	}
	sort.Strings(values)
	return values
}

// FindRow returns the index of the first row whose cell in the given column
// equals value, or -1 when absent. Duplicate keys resolve to the first
// occurrence.
func (t *Table) FindRow(column, value string) int {
	cells, ok := t.Column(column)
	if !ok {
		return -1
	}
	for i, cell := range cells {
		if cell == value {
			return i
		}
	}
	return -1
}
