package tabular

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/agentstation/reclass/pkg/constants"
	"github.com/agentstation/reclass/pkg/errors"
)

// Append adds rows to the table at path without rewriting existing rows.
// The header is written first when the file is absent or empty; otherwise
// only the rows are written, in the given column order. Failures are
// reported as *errors.PersistenceError.
func Append(path string, header []string, rows [][]string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapPersistence("create", dir, err)
		}
	}
	if FormatOf(path) == FormatXLSX {
		return appendXLSX(path, header, rows)
	}
	return appendDelimited(path, FormatOf(path), header, rows)
}

// Encode writes header and rows as a delimited table to w.
func Encode(w io.Writer, format Format, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	cw.Comma = format.comma()
	if header != nil {
		if err := cw.Write(header); err != nil {
			return err
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func appendDelimited(path string, format Format, header []string, rows [][]string) error {
	size, lastByte, err := tail(path)
	if err != nil {
		return errors.WrapPersistence("open", path, err)
	}

	// The payload is assembled first so the file sees a single write.
	var buf bytes.Buffer
	if size > 0 && lastByte != '\n' {
		buf.WriteByte('\n')
	}
	var hdr []string
	if size == 0 {
		hdr = header
	}
	if err := Encode(&buf, format, hdr, rows); err != nil {
		return errors.WrapPersistence("encode", path, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return errors.WrapPersistence("open", path, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return errors.WrapPersistence("append", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.WrapPersistence("append", path, err)
	}
	return nil
}

// tail returns the size of the file at path and its final byte.
// A missing file has size 0.
func tail(path string) (int64, byte, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return 0, 0, err
	}
	if info.Size() == 0 {
		return 0, 0, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return 0, 0, err
	}
	return info.Size(), last[0], nil
}

func appendXLSX(path string, header []string, rows [][]string) error {
	exists, err := Exists(path)
	if err != nil {
		return errors.WrapPersistence("open", path, err)
	}

	var f *excelize.File
	if exists {
		if f, err = excelize.OpenFile(path); err != nil {
			return errors.WrapPersistence("open", path, err)
		}
	} else {
		f = excelize.NewFile()
	}
	defer func() { _ = f.Close() }()

	sheet := firstSheet(f)
	existing, err := f.GetRows(sheet)
	if err != nil {
		return errors.WrapPersistence("open", path, err)
	}

	next := len(existing) + 1
	if len(existing) == 0 {
		if err := setRow(f, sheet, 1, header); err != nil {
			return errors.WrapPersistence("append", path, err)
		}
		next = 2
	}
	for _, row := range rows {
		if err := setRow(f, sheet, next, row); err != nil {
			return errors.WrapPersistence("append", path, err)
		}
		next++
	}

	if exists {
		err = f.Save()
	} else {
		err = f.SaveAs(path)
	}
	return errors.WrapPersistence("append", path, err)
}

func setRow(f *excelize.File, sheet string, n int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	return f.SetSheetRow(sheet, cell, &values)
}
