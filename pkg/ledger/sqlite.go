package ledger

import (
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/agentstation/reclass/pkg/constants"
	"github.com/agentstation/reclass/pkg/errors"
	"github.com/agentstation/reclass/pkg/logging"
	"github.com/agentstation/reclass/pkg/tabular"
)

const createResponsesTable = `CREATE TABLE IF NOT EXISTS responses (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL DEFAULT '',
	old_space_name TEXT NOT NULL DEFAULT '',
	old_type TEXT NOT NULL DEFAULT '',
	old_category TEXT NOT NULL DEFAULT '',
	department TEXT NOT NULL DEFAULT '',
	new_space_name TEXT NOT NULL DEFAULT '',
	new_type TEXT NOT NULL DEFAULT '',
	new_category TEXT NOT NULL DEFAULT '',
	new_space_alias_name TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const responseColumns = `id, old_space_name, old_type, old_category, department,
	new_space_name, new_type, new_category, new_space_alias_name`

// SQLite is a ledger stored in a SQLite database. Row order is insertion
// order, kept by an autoincrement sequence.
type SQLite struct {
	db     *sql.DB
	path   string
	logger *zerolog.Logger
}

// OpenSQLite opens (and if needed creates) the database at path.
// Failures are *errors.LoadError.
func OpenSQLite(path string, logger *zerolog.Logger) (*SQLite, error) {
	if path == "" {
		path = "responses.db"
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return nil, errors.WrapLoad("ledger", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapLoad("ledger", path, err)
	}
	// One writer at a time; a single connection also keeps :memory: databases intact.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createResponsesTable); err != nil {
		_ = db.Close()
		return nil, errors.NewLoadError("ledger", path, "create responses table", err)
	}
	return &SQLite{
		db:     db,
		path:   path,
		logger: logging.Component(logger, "ledger"),
	}, nil
}

// Path returns the database location.
func (s *SQLite) Path() string {
	return s.path
}

// Rows returns every row ordered by insertion.
func (s *SQLite) Rows() ([]Response, error) {
	rows, err := s.db.Query(`SELECT ` + responseColumns + ` FROM responses ORDER BY seq`)
	if err != nil {
		return nil, errors.WrapLoad("ledger", s.path, err)
	}
	defer func() { _ = rows.Close() }()

	out := []Response{}
	for rows.Next() {
		var r Response
		if err := rows.Scan(
			&r.ID, &r.OldSpaceName, &r.OldType, &r.OldCategory, &r.Department,
			&r.NewSpaceName, &r.NewType, &r.NewCategory, &r.NewSpaceAliasName,
		); err != nil {
			return nil, errors.WrapLoad("ledger", s.path, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapLoad("ledger", s.path, err)
	}
	return out, nil
}

// CompletedIDs queries the distinct non-empty IDs.
func (s *SQLite) CompletedIDs() (IDSet, error) {
	rows, err := s.db.Query(`SELECT DISTINCT trim(id) FROM responses WHERE trim(id) <> ''`)
	if err != nil {
		return nil, errors.WrapLoad("ledger", s.path, err)
	}
	defer func() { _ = rows.Close() }()

	set := IDSet{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.WrapLoad("ledger", s.path, err)
		}
		set[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapLoad("ledger", s.path, err)
	}
	return set, nil
}

// Append inserts r as one row.
func (s *SQLite) Append(r Response) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(constants.LedgerColumns)), ", ")
	args := make([]any, 0, len(constants.LedgerColumns))
	for _, v := range r.Values() {
		args = append(args, v)
	}
	if _, err := s.db.Exec(`INSERT INTO responses (`+responseColumns+`) VALUES (`+placeholders+`)`, args...); err != nil {
		return errors.WrapPersistence("append", s.path, err)
	}
	s.logger.Debug().
		Str("path", s.path).
		Str("id", r.ID).
		Msg("Ledger row appended")
	return nil
}

// Export renders the ledger as CSV with the standard header.
func (s *SQLite) Export(w io.Writer) error {
	rows, err := s.Rows()
	if err != nil {
		return err
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, r.Values())
	}
	if err := tabular.Encode(w, tabular.FormatCSV, constants.LedgerColumns, cells); err != nil {
		return errors.WrapPersistence("export", s.path, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
