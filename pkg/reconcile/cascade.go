package reconcile

import (
	"strings"

	"github.com/agentstation/reclass/pkg/errors"
)

// Cascade holds the options offered at each step of building a selection:
// a name first, then a type and a category for that name.
type Cascade struct {
	Names      []string `json:"names" yaml:"names"`
	Types      []string `json:"types" yaml:"types"`
	Categories []string `json:"categories" yaml:"categories"`
}

// CascadeOptions returns the choices for the given partial selection.
// Types and Categories are empty until a name is given. The chosen type
// does not narrow Categories; it is accepted so callers can pass the
// selection they have.
func (e *Engine) CascadeOptions(name, _ string) Cascade {
	c := Cascade{
		Names:      e.hierarchy.DistinctNames(),
		Types:      []string{},
		Categories: []string{},
	}
	if name == "" {
		return c
	}
	c.Types = e.hierarchy.TypesForName(name)
	c.Categories = e.hierarchy.CategoriesForName(name)
	return c
}

// CheckSelection verifies that sel could have been built from the cascading
// options: the name exists, and the type and the category are offered for
// that name. Failures are *errors.ValidationError.
func (e *Engine) CheckSelection(sel Selection) error {
	c := e.CascadeOptions(sel.Name, sel.Type)
	if !contains(c.Names, sel.Name) {
		return errors.NewValidationError("name", sel.Name, "not a known space name")
	}
	if !contains(c.Types, sel.Type) {
		return errors.NewValidationError("type", sel.Type, "not offered for "+sel.Name)
	}
	if !contains(c.Categories, sel.Category) {
		return errors.NewValidationError("category", sel.Category, "not offered for "+sel.Name)
	}
	return nil
}

func contains(values []string, v string) bool {
	if strings.TrimSpace(v) == "" {
		return false
	}
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
