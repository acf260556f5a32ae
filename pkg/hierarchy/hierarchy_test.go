package hierarchy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/reclass/pkg/errors"
	"github.com/agentstation/reclass/pkg/hierarchy"
)

func sample() *hierarchy.Store {
	return hierarchy.FromOptions(
		hierarchy.Option{Name: "A", Type: "Office", Category: "Admin"},
		hierarchy.Option{Name: "A", Type: "Lab", Category: "Admin"},
		hierarchy.Option{Name: "B", Type: "Office", Category: "Ops"},
	)
}

func TestCascadingQueries(t *testing.T) {
	s := sample()

	assert.Equal(t, []string{"A", "B"}, s.DistinctNames())
	assert.ElementsMatch(t, []string{"Office", "Lab"}, s.TypesForName("A"))
	assert.Equal(t, []string{"Admin"}, s.CategoriesForName("A"))
	assert.Equal(t, []string{"Ops"}, s.CategoriesForName("B"))
	assert.Empty(t, s.TypesForName("missing"))
	assert.Empty(t, s.CategoriesForName("missing"))
}

func TestCategoriesIgnoreType(t *testing.T) {
	s := hierarchy.FromOptions(
		hierarchy.Option{Name: "A", Type: "Office", Category: "Admin"},
		hierarchy.Option{Name: "A", Type: "Lab", Category: "Research"},
	)

	// Whatever type a reviewer picks, the category list for A is the same.
	assert.Equal(t, []string{"Admin", "Research"}, s.CategoriesForName("A"))
}

func TestAddEntry(t *testing.T) {
	s := sample()

	_, err := s.AddEntry("C", "Storage", "")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, 3, s.Len())

	_, err = s.AddEntry("C", "Storage", "   ")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, 3, s.Len())

	o, err := s.AddEntry(" C ", "Storage", "Facilities ")
	require.NoError(t, err)
	assert.Equal(t, hierarchy.Option{Name: "C", Type: "Storage", Category: "Facilities"}, o)
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, []string{"Storage"}, s.TypesForName("C"))
	assert.Equal(t, []string{"A", "B", "C"}, s.DistinctNames())
}

func TestValidationErrorField(t *testing.T) {
	s := sample()
	tests := []struct {
		name, typ, category string
		field               string
	}{
		{"", "Office", "Admin", "name"},
		{"X", " ", "Admin", "type"},
		{"X", "Office", "", "category"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			_, err := s.AddEntry(tt.name, tt.typ, tt.category)
			var ve *errors.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestLoadNormalizes(t *testing.T) {
	content := " SPACE NAME ,SPACE TYPE,SPACE CATEGORY\n" +
		" A , Office ,Admin\n" +
		"B,,Ops\n" +
		"C,Storage,Facilities\n" +
		",,\n"
	path := filepath.Join(t.TempDir(), "options.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := hierarchy.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, []hierarchy.Option{
		{Name: "A", Type: "Office", Category: "Admin"},
		{Name: "C", Type: "Storage", Category: "Facilities"},
	}, s.List())
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := hierarchy.Load(filepath.Join(t.TempDir(), "options.csv"), nil)
		require.Error(t, err)
		assert.True(t, errors.IsLoad(err))
	})

	t.Run("missing column", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "options.csv")
		require.NoError(t, os.WriteFile(path, []byte("SPACE NAME,SPACE TYPE\nA,Office\n"), 0o644))
		_, err := hierarchy.Load(path, nil)
		require.Error(t, err)
		assert.True(t, errors.IsLoad(err))
		assert.Contains(t, err.Error(), "SPACE CATEGORY")
	})
}

func TestAddEntryPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.csv")
	require.NoError(t, os.WriteFile(path, []byte("SPACE NAME,SPACE TYPE,SPACE CATEGORY\nA,Office,Admin"), 0o644))

	s, err := hierarchy.Load(path, nil)
	require.NoError(t, err)

	_, err = s.AddEntry("C", "Storage", "Facilities")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SPACE NAME,SPACE TYPE,SPACE CATEGORY\nA,Office,Admin\nC,Storage,Facilities\n", string(data))

	// A fresh load sees the appended row.
	reloaded, err := hierarchy.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Len())
}

func TestReload(t *testing.T) {
	src := hierarchy.NewMemorySource(hierarchy.Option{Name: "A", Type: "Office", Category: "Admin"})
	s, err := hierarchy.New(src, nil)
	require.NoError(t, err)

	// Written behind the store's back.
	require.NoError(t, src.Append(hierarchy.Option{Name: "B", Type: "Lab", Category: "Ops"}))
	assert.Equal(t, []string{"A"}, s.DistinctNames())

	require.NoError(t, s.Reload())
	assert.Equal(t, []string{"A", "B"}, s.DistinctNames())
}

type failingSource struct {
	hierarchy.MemorySource
}

func (*failingSource) Append(hierarchy.Option) error {
	return os.ErrPermission
}

func TestAddEntryPersistenceFailure(t *testing.T) {
	s, err := hierarchy.New(&failingSource{}, nil)
	require.NoError(t, err)

	_, err = s.AddEntry("A", "Office", "Admin")
	require.Error(t, err)
	assert.True(t, errors.IsPersistence(err))
	assert.Equal(t, 0, s.Len())
}
