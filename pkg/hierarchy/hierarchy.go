// Package hierarchy provides the store of valid replacement classifications.
//
// Each Option is one valid (name, type, category) combination. Several options
// may share a name, so the store is not a strict tree. The cascading queries
// follow a fixed order: names first, then the types and the categories offered
// for the chosen name. Category options depend on the name only; choosing a
// type does not narrow them.
package hierarchy

import (
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/reclass/pkg/errors"
	"github.com/agentstation/reclass/pkg/logging"
)

// Option is one valid replacement classification.
type Option struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Category string `json:"category" yaml:"category"`
}

// trimmed returns o with every field trimmed.
func (o Option) trimmed() Option {
	return Option{
		Name:     strings.TrimSpace(o.Name),
		Type:     strings.TrimSpace(o.Type),
		Category: strings.TrimSpace(o.Category),
	}
}

// complete reports whether every field is non-empty.
func (o Option) complete() bool {
	return o.Name != "" && o.Type != "" && o.Category != ""
}

// Store holds the hierarchy options in source order.
type Store struct {
	mu      sync.RWMutex
	source  Source
	options []Option
	logger  *zerolog.Logger
}

// New loads a store from source. Load failures are *errors.LoadError.
func New(source Source, logger *zerolog.Logger) (*Store, error) {
	s := &Store{
		source: source,
		logger: logging.Component(logger, "hierarchy"),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads the hierarchy file at path.
func Load(path string, logger *zerolog.Logger) (*Store, error) {
	return New(NewFileSource(path), logger)
}

// FromOptions builds a store backed by memory, mainly for tests and embedding.
func FromOptions(options ...Option) *Store {
	s, _ := New(NewMemorySource(options...), nil)
	return s
}

// Reload discards the loaded options and reads the source again.
// It is the explicit invalidation step callers run after a hierarchy append.
// On failure the previously loaded options are kept.
func (s *Store) Reload() error {
	raw, err := s.source.Load()
	if err != nil {
		return errors.WrapLoad("hierarchy", "", err)
	}
	options := normalize(raw)

	s.mu.Lock()
	s.options = options
	s.mu.Unlock()

	s.logger.Debug().
		Int("options", len(options)).
		Int("dropped", len(raw)-len(options)).
		Msg("Hierarchy options loaded")
	return nil
}

// Len returns the number of options.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.options)
}

// List returns all options in source order.
func (s *Store) List() []Option {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Option, len(s.options))
	copy(out, s.options)
	return out
}

// DistinctNames returns every name in the store, sorted.
func (s *Store) DistinctNames() []string {
	return s.collect(func(Option) bool { return true }, func(o Option) string { return o.Name })
}

// TypesForName returns the types offered for name, sorted.
func (s *Store) TypesForName(name string) []string {
	return s.collect(func(o Option) bool { return o.Name == name }, func(o Option) string { return o.Type })
}

// CategoriesForName returns the categories offered for name, sorted.
// The result does not depend on any chosen type.
func (s *Store) CategoriesForName(name string) []string {
	return s.collect(func(o Option) bool { return o.Name == name }, func(o Option) string { return o.Category })
}

// AddEntry validates and appends a new option. Blank fields (after trimming)
// are a *errors.ValidationError and leave the store unchanged. The option is
// written to the source first and is visible to queries as soon as AddEntry
// returns.
func (s *Store) AddEntry(name, typ, category string) (Option, error) {
	o := Option{Name: name, Type: typ, Category: category}.trimmed()
	if err := validate(o); err != nil {
		return Option{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.source.Append(o); err != nil {
		return Option{}, errors.WrapPersistence("append", "hierarchy", err)
	}
	s.options = append(s.options, o)

	s.logger.Info().
		Str("name", o.Name).
		Str("type", o.Type).
		Str("category", o.Category).
		Msg("Hierarchy entry added")
	return o, nil
}

func (s *Store) collect(keep func(Option) bool, field func(Option) string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := []string{}
	for _, o := range s.options {
		if !keep(o) {
			continue
		}
		v := field(o)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func validate(o Option) error {
	switch {
	case o.Name == "":
		return errors.NewValidationError("name", o.Name, "must not be blank")
	case o.Type == "":
		return errors.NewValidationError("type", o.Type, "must not be blank")
	case o.Category == "":
		return errors.NewValidationError("category", o.Category, "must not be blank")
	}
	return nil
}

// normalize trims every option and drops incomplete ones.
func normalize(raw []Option) []Option {
	out := make([]Option, 0, len(raw))
	for _, o := range raw {
		o = o.trimmed()
		if o.complete() {
			out = append(out, o)
		}
	}
	return out
}
