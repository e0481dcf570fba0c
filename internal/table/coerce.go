package table

import (
	"math"
	"strconv"
	"strings"
)

// CoerceFloat parses a single cell as float64. Empty or unparseable cells
// yield NaN instead of an error, matching the loose typing of upstream
// differential-expression exports.
func CoerceFloat(cell string) float64 {
	cleaned := strings.TrimSpace(cell)
	if cleaned == "" {
		return math.NaN()
	}

	switch strings.ToLower(cleaned) {
	case "na", "nan", "n/a", "null", "none":
		return math.NaN()
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.NaN()
	}
	return value
}

// CoerceNumeric coerces a whole column, cell by cell.
func CoerceNumeric(cells []string) []float64 {
	values := make([]float64, len(cells))
	for i, cell := range cells {
		values[i] = CoerceFloat(cell)
	}
	return values
}
