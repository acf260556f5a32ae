// Package ledger provides the append-only response ledger, the durable
// source of the completed set.
//
// The ledger never deduplicates or validates what it is given. Keeping a
// record to at most one row is the caller's job. Three backends exist: a
// tabular file (csv, tsv or xlsx), a SQLite database and an in-memory log.
package ledger

import (
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/reclass/pkg/constants"
	"github.com/agentstation/reclass/pkg/errors"
)

// Response is one accepted reclassification. It is created once per
// submission and never mutated afterwards.
type Response struct {
	ID                string `json:"id" yaml:"id"`
	OldSpaceName      string `json:"old_space_name" yaml:"old_space_name"`
	OldType           string `json:"old_type" yaml:"old_type"`
	OldCategory       string `json:"old_category" yaml:"old_category"`
	Department        string `json:"department" yaml:"department"`
	NewSpaceName      string `json:"new_space_name" yaml:"new_space_name"`
	NewType           string `json:"new_type" yaml:"new_type"`
	NewCategory       string `json:"new_category" yaml:"new_category"`
	NewSpaceAliasName string `json:"new_space_alias_name" yaml:"new_space_alias_name"`
}

// Values returns the cells of r in constants.LedgerColumns order.
func (r Response) Values() []string {
	return []string{
		r.ID,
		r.OldSpaceName,
		r.OldType,
		r.OldCategory,
		r.Department,
		r.NewSpaceName,
		r.NewType,
		r.NewCategory,
		r.NewSpaceAliasName,
	}
}

// Ledger is the append-only log of accepted reclassifications.
type Ledger interface {
	// Rows returns every persisted response in insertion order.
	Rows() ([]Response, error)

	// CompletedIDs returns the distinct non-empty IDs across all rows.
	CompletedIDs() (IDSet, error)

	// Append writes exactly one row, creating the store on first write.
	Append(Response) error

	// Export writes the ledger contents to w for download.
	Export(w io.Writer) error

	// Close releases any resources held by the ledger.
	Close() error
}

// Compile-time interface checks.
var (
	_ Ledger = (*File)(nil)
	_ Ledger = (*SQLite)(nil)
	_ Ledger = (*Memory)(nil)
)

// IDSet is a set of record IDs.
type IDSet map[string]struct{}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[strings.TrimSpace(id)]
	return ok
}

// Len returns the number of IDs in the set.
func (s IDSet) Len() int {
	return len(s)
}

// completedIDs collects the distinct IDs of rows. ID-less rows are skipped.
func completedIDs(rows []Response) IDSet {
	set := make(IDSet, len(rows))
	for _, r := range rows {
		if id := strings.TrimSpace(r.ID); id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Open returns the ledger for driver stored at path.
func Open(driver, path string, logger *zerolog.Logger) (Ledger, error) {
	switch driver {
	case "", constants.LedgerDriverFile:
		return NewFile(path, logger), nil
	case constants.LedgerDriverSQLite:
		return OpenSQLite(path, logger)
	default:
		return nil, errors.NewConfigError("ledger", "unknown driver "+driver, nil)
	}
}
