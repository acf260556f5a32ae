// Package tabular reads and appends the flat tables that back the reclass stores.
//
// The encoding is chosen from the file extension: ".csv" is comma separated,
// ".tsv" and ".tab" are tab separated and ".xlsx" is the first worksheet of an
// Excel workbook. Any other extension is read as CSV. Header names are trimmed
// and every row is padded to the header width, so callers can look cells up by
// column name without bounds checks.
package tabular

import (
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a tabular encoding.
type Format string

const (
	// FormatCSV is comma separated values.
	FormatCSV Format = "csv"
	// FormatTSV is tab separated values.
	FormatTSV Format = "tsv"
	// FormatXLSX is an Excel workbook; only the first sheet is used.
	FormatXLSX Format = "xlsx"
)

// FormatOf returns the encoding used for path.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return FormatTSV
	case ".xlsx":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// comma returns the field delimiter of a delimited format.
func (f Format) comma() rune {
	if f == FormatTSV {
		return '\t'
	}
	return ','
}

// ContentType returns the MIME type used when serving a file of this format.
func (f Format) ContentType() string {
	switch f {
	case FormatTSV:
		return "text/tab-separated-values; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Table is a header plus rows of string cells.
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// NewTable builds a table, trimming header names and padding short rows.
// When a header name repeats, lookups resolve to its first occurrence.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{
		Header: make([]string, len(header)),
		Rows:   make([][]string, 0, len(rows)),
		index:  make(map[string]int, len(header)),
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		t.Header[i] = name
		if _, dup := t.index[name]; !dup {
			t.index[name] = i
		}
	}
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Index returns the position of column, or -1 when absent.
func (t *Table) Index(column string) int {
	if i, ok := t.index[column]; ok {
		return i
	}
	return -1
}

// Has reports whether the header contains column.
func (t *Table) Has(column string) bool {
	return t.Index(column) >= 0
}

// Missing returns the columns that are not in the header, in argument order.
func (t *Table) Missing(columns ...string) []string {
	var missing []string
	for _, c := range columns {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Value returns the cell of row in column, or "" when the column is absent.
func (t *Table) Value(row []string, column string) string {
	i := t.Index(column)
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Exists reports whether a regular file exists at path.
func Exists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
