// Package cmdtest provides fixtures for command tests: a reclass client
// over temporary source files and a helper to run a cobra command.
package cmdtest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/reclass"
	"github.com/agentstation/reclass/internal/appcontext"
)

// MasterCSV holds two master records.
const MasterCSV = "ID,space_alias_name,space_category,space_type,department_occupied\n" +
	"1,Room 101,Admin,Office,Finance\n" +
	"2,Room 102,Support,Storage,Facilities\n"

// OptionsCSV holds three hierarchy options over two names.
const OptionsCSV = "SPACE NAME,SPACE TYPE,SPACE CATEGORY\n" +
	"A,Office,Admin\n" +
	"A,Lab,Admin\n" +
	"B,Office,Ops\n"

// Fixture is a client over temporary files.
type Fixture struct {
	Client        reclass.Client
	Dir           string
	MasterPath    string
	HierarchyPath string
	LedgerPath    string
}

// NewFixture writes the fixture sources to a temporary directory and opens
// a client on them. The client is closed when the test ends.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	dir := t.TempDir()
	f := &Fixture{
		Dir:           dir,
		MasterPath:    filepath.Join(dir, "master.csv"),
		HierarchyPath: filepath.Join(dir, "options.csv"),
		LedgerPath:    filepath.Join(dir, "responses.csv"),
	}
	require.NoError(t, os.WriteFile(f.MasterPath, []byte(MasterCSV), 0o644))
	require.NoError(t, os.WriteFile(f.HierarchyPath, []byte(OptionsCSV), 0o644))

	c, err := reclass.New(
		reclass.WithMasterPath(f.MasterPath),
		reclass.WithHierarchyPath(f.HierarchyPath),
		reclass.WithLedgerPath(f.LedgerPath),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	f.Client = c
	return f
}

// App returns a mock application context serving the fixture client with
// the given output format.
func (f *Fixture) App(format string) *appcontext.Mock {
	return &appcontext.Mock{
		ClientFunc:       func() (reclass.Client, error) { return f.Client, nil },
		OutputFormatFunc: func() string { return format },
	}
}

// Run executes cmd with args and returns what it wrote to stdout and stderr.
func Run(cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}
