// Package records provides the master record store: the read-only catalog of
// records awaiting reclassification. The store is loaded once and never
// changes for the lifetime of the process; its order is the source order.
package records

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/reclass/pkg/constants"
	"github.com/agentstation/reclass/pkg/errors"
	"github.com/agentstation/reclass/pkg/logging"
	"github.com/agentstation/reclass/pkg/tabular"
)

// Record is one master record.
type Record struct {
	ID                 string `json:"id" yaml:"id"`
	SpaceAliasName     string `json:"space_alias_name" yaml:"space_alias_name"`
	SpaceCategory      string `json:"space_category" yaml:"space_category"`
	SpaceType          string `json:"space_type" yaml:"space_type"`
	DepartmentOccupied string `json:"department_occupied" yaml:"department_occupied"`
}

// Store is an immutable, ordered collection of master records.
type Store struct {
	records []Record
	byID    map[string]int
}

// New builds a store from records in the given order.
// IDs are trimmed; an empty or repeated ID is a *errors.LoadError.
func New(records []Record) (*Store, error) {
	s := &Store{
		records: make([]Record, 0, len(records)),
		byID:    make(map[string]int, len(records)),
	}
	for i, r := range records {
		r.ID = strings.TrimSpace(r.ID)
		if r.ID == "" {
			return nil, errors.NewLoadError("master", "", fmt.Sprintf("record %d has an empty ID", i+1), nil)
		}
		if prev, dup := s.byID[r.ID]; dup {
			return nil, errors.NewLoadError("master", "",
				fmt.Sprintf("duplicate ID %s in records %d and %d", r.ID, prev+1, i+1), nil)
		}
		s.byID[r.ID] = len(s.records)
		s.records = append(s.records, r)
	}
	return s, nil
}

// Load reads the master source at path. Failures are *errors.LoadError.
func Load(path string, logger *zerolog.Logger) (*Store, error) {
	log := logging.Component(logger, "records")

	tbl, err := tabular.Read(path)
	if err != nil {
		return nil, errors.WrapLoad("master", path, err)
	}
	if missing := tbl.Missing(constants.MasterColumns...); len(missing) > 0 {
		return nil, errors.NewLoadError("master", path,
			"missing required columns: "+strings.Join(missing, ", "), nil)
	}

	records := make([]Record, 0, tbl.Len())
	for _, row := range tbl.Rows {
		records = append(records, Record{
			ID:                 tbl.Value(row, constants.ColumnID),
			SpaceAliasName:     tbl.Value(row, constants.ColumnSpaceAliasName),
			SpaceCategory:      tbl.Value(row, constants.ColumnSpaceCategory),
			SpaceType:          tbl.Value(row, constants.ColumnSpaceType),
			DepartmentOccupied: tbl.Value(row, constants.ColumnDepartmentOccupied),
		})
	}

	s, err := New(records)
	if err != nil {
		var le *errors.LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}

	log.Debug().
		Str("path", path).
		Int("records", s.Len()).
		Msg("Master records loaded")
	return s, nil
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// List returns the records in store order. The slice is a copy.
func (s *Store) List() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Each calls fn for every record in store order until fn returns false.
func (s *Store) Each(fn func(Record) bool) {
	for _, r := range s.records {
		if !fn(r) {
			return
		}
	}
}

// Get returns the record with the given ID.
func (s *Store) Get(id string) (Record, error) {
	i, ok := s.byID[strings.TrimSpace(id)]
	if !ok {
		return Record{}, errors.NewNotFoundError("record", id)
	}
	return s.records[i], nil
}
