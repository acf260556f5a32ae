package ledger

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/reclass/pkg/constants"
	"github.com/agentstation/reclass/pkg/errors"
	"github.com/agentstation/reclass/pkg/logging"
	"github.com/agentstation/reclass/pkg/tabular"
)

// File is a ledger kept in a tabular file.
//
// Every read goes back to the file, so rows appended by Append (or by
// anyone else) are visible to the next call without any cache to invalidate.
//
// A file whose header lacks the ID column is still accepted. Its rows are
// read as ID-less and never count as completed. A warning is logged on each
// read; the file is not repaired.
type File struct {
	path   string
	logger *zerolog.Logger
}

// NewFile returns a ledger stored at path. The file need not exist yet.
func NewFile(path string, logger *zerolog.Logger) *File {
	return &File{
		path:   path,
		logger: logging.Component(logger, "ledger"),
	}
}

// Path returns the file location.
func (f *File) Path() string {
	return f.path
}

// Rows reads every row in file order. A missing or empty file has no rows.
func (f *File) Rows() ([]Response, error) {
	tbl, err := tabular.Read(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Response{}, nil
		}
		return nil, errors.WrapLoad("ledger", f.path, err)
	}
	if len(tbl.Header) == 0 {
		return []Response{}, nil
	}

	if !tbl.Has(constants.ColumnID) {
		f.logger.Warn().
			Str("path", f.path).
			Int("rows", tbl.Len()).
			Msg("Ledger has no ID column; rows will not count as completed")
	}

	rows := make([]Response, 0, tbl.Len())
	for _, row := range tbl.Rows {
		rows = append(rows, Response{
			ID:                tbl.Value(row, constants.ColumnID),
			OldSpaceName:      tbl.Value(row, constants.ColumnOldSpaceName),
			OldType:           tbl.Value(row, constants.ColumnOldType),
			OldCategory:       tbl.Value(row, constants.ColumnOldCategory),
			Department:        tbl.Value(row, constants.ColumnDepartment),
			NewSpaceName:      tbl.Value(row, constants.ColumnNewSpaceName),
			NewType:           tbl.Value(row, constants.ColumnNewType),
			NewCategory:       tbl.Value(row, constants.ColumnNewCategory),
			NewSpaceAliasName: tbl.Value(row, constants.ColumnNewSpaceAliasName),
		})
	}
	return rows, nil
}

// CompletedIDs returns the distinct IDs in the file.
func (f *File) CompletedIDs() (IDSet, error) {
	rows, err := f.Rows()
	if err != nil {
		return nil, err
	}
	return completedIDs(rows), nil
}

// Append writes r as one row. The header is written when the file is new.
func (f *File) Append(r Response) error {
	if err := tabular.Append(f.path, constants.LedgerColumns, [][]string{r.Values()}); err != nil {
		return err
	}
	f.logger.Debug().
		Str("path", f.path).
		Str("id", r.ID).
		Msg("Ledger row appended")
	return nil
}

// Export copies the raw file bytes to w. A missing file is a not found error.
func (f *File) Export(w io.Writer) error {
	src, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFoundError("ledger", "")
		}
		return errors.WrapPersistence("export", f.path, err)
	}
	defer func() { _ = src.Close() }()

	if _, err := io.Copy(w, src); err != nil {
		return errors.WrapPersistence("export", f.path, err)
	}
	return nil
}

// Close is a no-op; the file is only open during a call.
func (f *File) Close() error {
	return nil
}
