package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/reclass/pkg/errors"
	"github.com/agentstation/reclass/pkg/ledger"
	"github.com/agentstation/reclass/pkg/reconcile"
)

func TestCascadeOptions(t *testing.T) {
	e := newEngine(t, ledger.NewMemory(), "1")

	c := e.CascadeOptions("", "")
	assert.Equal(t, []string{"A", "B"}, c.Names)
	assert.Empty(t, c.Types)
	assert.Empty(t, c.Categories)

	c = e.CascadeOptions("A", "")
	assert.Equal(t, []string{"Lab", "Office"}, c.Types)
	assert.Equal(t, []string{"Admin"}, c.Categories)

	for _, typ := range []string{"Office", "Lab"} {
		assert.Equal(t, []string{"Admin"}, e.CascadeOptions("A", typ).Categories,
			"categories are not narrowed by type %s", typ)
	}
}

func TestCascadeSeesNewEntries(t *testing.T) {
	e := newEngine(t, ledger.NewMemory(), "1")

	_, err := e.Hierarchy().AddEntry("C", "Storage", "Facilities")
	require.NoError(t, err)

	c := e.CascadeOptions("C", "")
	assert.Contains(t, c.Names, "C")
	assert.Equal(t, []string{"Storage"}, c.Types)
	assert.Equal(t, []string{"Facilities"}, c.Categories)
}

func TestCheckSelection(t *testing.T) {
	e := newEngine(t, ledger.NewMemory(), "1")

	assert.NoError(t, e.CheckSelection(reconcile.Selection{Name: "A", Type: "Lab", Category: "Admin"}))

	tests := []struct {
		sel   reconcile.Selection
		field string
	}{
		{reconcile.Selection{Name: "Z", Type: "Office", Category: "Admin"}, "name"},
		{reconcile.Selection{Name: "A", Type: "Storage", Category: "Admin"}, "type"},
		{reconcile.Selection{Name: "A", Type: "Office", Category: "Ops"}, "category"},
		{reconcile.Selection{}, "name"},
	}
	for _, tt := range tests {
		err := e.CheckSelection(tt.sel)
		var ve *errors.ValidationError
		require.True(t, errors.As(err, &ve), "%+v", tt.sel)
		assert.Equal(t, tt.field, ve.Field)
	}
}
