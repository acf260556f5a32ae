package reclass

import (
	"github.com/agentstation/reclass/pkg/hierarchy"
	"github.com/agentstation/reclass/pkg/reconcile"
	"github.com/agentstation/reclass/pkg/records"
)

// Catalog gives access to the master records and the hierarchy options.
type Catalog interface {
	// Record returns the master record with the given ID.
	Record(id string) (records.Record, error)

	// Records returns every master record in store order.
	Records() []records.Record

	// HierarchyOptions returns every hierarchy option in source order.
	HierarchyOptions() []hierarchy.Option

	// CascadeOptions returns the names, and for a chosen name its types and
	// categories. Categories are never narrowed by the chosen type.
	CascadeOptions(name, typ string) reconcile.Cascade

	// CheckSelection verifies that a selection is offered by the hierarchy.
	CheckSelection(sel reconcile.Selection) error

	// AddHierarchyEntry validates and persists a new option, then reloads
	// the hierarchy so every adapter sees it.
	AddHierarchyEntry(name, typ, category string) (hierarchy.Option, error)

	// ReloadHierarchy reads the hierarchy source again.
	ReloadHierarchy() error
}

// Record returns the master record with the given ID.
func (c *client) Record(id string) (records.Record, error) {
	return c.engine.Records().Get(id)
}

// Records returns every master record in store order.
func (c *client) Records() []records.Record {
	return c.engine.Records().List()
}

// HierarchyOptions returns every hierarchy option.
func (c *client) HierarchyOptions() []hierarchy.Option {
	return c.engine.Hierarchy().List()
}

// CascadeOptions returns the cascading choices for a partial selection.
func (c *client) CascadeOptions(name, typ string) reconcile.Cascade {
	return c.engine.CascadeOptions(name, typ)
}

// CheckSelection verifies that sel is offered by the hierarchy.
func (c *client) CheckSelection(sel reconcile.Selection) error {
	return c.engine.CheckSelection(sel)
}

// AddHierarchyEntry validates and persists a new option.
func (c *client) AddHierarchyEntry(name, typ, category string) (hierarchy.Option, error) {
	c.mu.Lock()
	o, err := c.engine.Hierarchy().AddEntry(name, typ, category)
	if err == nil {
		err = c.engine.Hierarchy().Reload()
	}
	c.mu.Unlock()
	if err != nil {
		return o, err
	}

	c.hooks.hierarchyEntryAdded(o)
	return o, nil
}

// ReloadHierarchy reads the hierarchy source again.
func (c *client) ReloadHierarchy() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Hierarchy().Reload()
}
