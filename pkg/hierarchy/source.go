package hierarchy

import (
	"strings"
	"sync"

	"github.com/agentstation/reclass/pkg/constants"
	"github.com/agentstation/reclass/pkg/errors"
	"github.com/agentstation/reclass/pkg/tabular"
)

// Source is where hierarchy options are persisted.
type Source interface {
	// Load returns every stored option, unnormalized, in source order.
	Load() ([]Option, error)

	// Append durably adds one option without rewriting existing ones.
	Append(Option) error
}

// Compile-time interface checks.
var (
	_ Source = (*FileSource)(nil)
	_ Source = (*MemorySource)(nil)
)

// FileSource stores options in a tabular file with the columns
// SPACE NAME, SPACE TYPE and SPACE CATEGORY.
type FileSource struct {
	path string
}

// NewFileSource returns a source for the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the file location.
func (f *FileSource) Path() string {
	return f.path
}

// Load reads the file. A missing file or missing column is a *errors.LoadError.
func (f *FileSource) Load() ([]Option, error) {
	tbl, err := tabular.Read(f.path)
	if err != nil {
		return nil, errors.WrapLoad("hierarchy", f.path, err)
	}
	if missing := tbl.Missing(constants.HierarchyColumns...); len(missing) > 0 {
		return nil, errors.NewLoadError("hierarchy", f.path,
			"missing required columns: "+strings.Join(missing, ", "), nil)
	}

	options := make([]Option, 0, tbl.Len())
	for _, row := range tbl.Rows {
		options = append(options, Option{
			Name:     tbl.Value(row, constants.ColumnSpaceName),
			Type:     tbl.Value(row, constants.ColumnSpaceTypeUpper),
			Category: tbl.Value(row, constants.ColumnSpaceCategoryUpper),
		})
	}
	return options, nil
}

// Append adds one row, creating the file with a header when it is absent.
func (f *FileSource) Append(o Option) error {
	return tabular.Append(f.path, constants.HierarchyColumns, [][]string{{o.Name, o.Type, o.Category}})
}

// MemorySource keeps options in memory.
type MemorySource struct {
	mu      sync.Mutex
	options []Option
}

// NewMemorySource returns a source seeded with options.
func NewMemorySource(options ...Option) *MemorySource {
	return &MemorySource{options: append([]Option(nil), options...)}
}

// Load returns a copy of the stored options.
func (m *MemorySource) Load() ([]Option, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Option(nil), m.options...), nil
}

// Append stores o.
func (m *MemorySource) Append(o Option) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.options = append(m.options, o)
	return nil
}
