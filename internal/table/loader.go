package table

import (
	"bytes"
	"encoding/csv"
	"io"
	"log"
	"strings"

	"degview/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Separator choices accepted by Load. SepAuto triggers extension-based and
// content-based detection; SepTabEscape is the literal two-character escape
// offered by the separator selector.
const (
	SepAuto      = "auto"
	SepTabEscape = `\t`
)

// SeparatorChoices lists the selector options, in display order.
var SeparatorChoices = []string{SepAuto, ",", ";", SepTabEscape, "|"}

// AcceptedExtensions lists the upload extensions the loader understands.
var AcceptedExtensions = []string{".tsv", ".csv", ".txt", ".xlsx", ".xls"}

// DefaultSniffLines bounds how much of the file the separator sniffer reads.
const DefaultSniffLines = 1000

// HasAcceptedExtension reports whether filename carries a loadable extension.
func HasAcceptedExtension(filename string) bool {
	name := strings.ToLower(filename)
	for _, ext := range AcceptedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Load parses raw uploaded bytes into a full table plus an independent
// preview copy of the first previewRows rows. The first row is always the
// header. Spreadsheet files go through excelize; everything else is read as
// delimited text with the resolved separator.
func Load(content []byte, filename, sepChoice string, previewRows int) (*Table, *Table, error) {
	name := strings.ToLower(filename)

	var (
		rows [][]string
		err  error
	)
	if strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xls") {
		rows, err = readSpreadsheet(content)
	} else {
		sep := resolveSeparator(content, name, sepChoice)
		rows, err = readDelimited(content, sep)
	}
	if err != nil {
		return nil, nil, err
	}

	full, err := fromRows(rows)
	if err != nil {
		return nil, nil, err
	}

	preview := full.Head(previewRows)
	log.Printf("[Loader] Loaded %s: %d rows x %d columns (preview %d rows)",
		filename, full.NumRows(), full.NumCols(), preview.NumRows())
	return full, preview, nil
}

// resolveSeparator maps the user's separator choice to a concrete rune.
func resolveSeparator(content []byte, lowerName, sepChoice string) rune {
	switch sepChoice {
	case SepAuto:
		if strings.HasSuffix(lowerName, ".tsv") {
			return '\t'
		}
		if sep, ok := SniffSeparator(content, DefaultSniffLines); ok {
			return sep
		}
		return ','
	case SepTabEscape:
		return '\t'
	default:
		for _, r := range sepChoice {
			return r
		}
		return ','
	}
}

func readDelimited(content []byte, sep rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.LoadFailed("failed to parse delimited text", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func readSpreadsheet(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, errors.LoadFailed("failed to open spreadsheet", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.EmptyTable("spreadsheet contains no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.LoadFailed("failed to read first sheet", err)
	}
	return rows, nil
}

// fromRows converts row-major records (header first) into a Table.
func fromRows(rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, errors.EmptyTable("file contains no rows")
	}
	if len(rows) < 2 {
		return nil, errors.EmptyTable("file must have a header row and at least one data row")
	}

	header := rows[0]
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}
	if len(names) == 0 {
		return nil, errors.EmptyTable("file contains no columns")
	}

	cells := make([][]string, len(names))
	for i := range cells {
		cells[i] = make([]string, len(rows)-1)
	}
	for r := 1; r < len(rows); r++ {
		for c := range names {
			if c < len(rows[r]) {
				cells[c][r-1] = strings.TrimSpace(rows[r][c])
			}
		}
	}

	t, err := New(names, cells)
	if err != nil {
		return nil, errors.LoadFailed("failed to assemble table", err)
	}
	return t, nil
}
