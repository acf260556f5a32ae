package tabular

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"
)

// Read loads the table stored at path.
// A missing file yields an error matching os.ErrNotExist. An empty file
// yields a table with no header and no rows.
func Read(path string) (*Table, error) {
	if FormatOf(path) == FormatXLSX {
		return readXLSX(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return Decode(f, FormatOf(path))
}

// Decode reads a delimited table from r. The first record is the header.
func Decode(r io.Reader, format Format) (*Table, error) {
	cr := csv.NewReader(stripUTF8BOM(bufio.NewReader(r)))
	cr.Comma = format.comma()
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}
	if len(records) == 0 {
		return NewTable(nil, nil), nil
	}
	return NewTable(records[0], records[1:]), nil
}

func readXLSX(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(firstSheet(f))
	if err != nil {
		return nil, fmt.Errorf("read worksheet: %w", err)
	}
	if len(rows) == 0 {
		return NewTable(nil, nil), nil
	}
	return NewTable(rows[0], rows[1:]), nil
}

func firstSheet(f *excelize.File) string {
	if sheets := f.GetSheetList(); len(sheets) > 0 {
		return sheets[0]
	}
	return "Sheet1"
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}
