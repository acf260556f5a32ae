// Package ledger provides the ledger command and its subcommands.
package ledger

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/reclass/internal/appcontext"
	"github.com/agentstation/reclass/internal/cmd/emoji"
	"github.com/agentstation/reclass/internal/cmd/output"
	"github.com/agentstation/reclass/pkg/constants"
	"github.com/agentstation/reclass/pkg/errors"
)

// NewCommand creates the ledger command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect or export the response ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newExportCommand(app))

	return cmd
}

func newListCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List accepted reclassifications",
		Long: `List prints every row of the response ledger in the order it was
written. Use -o wide to include the old values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			rows, err := client.LedgerRows()
			if err != nil {
				return err
			}
			format := output.DetectFormat(app.OutputFormat())
			return output.Write(cmd.OutOrStdout(), format, rows,
				func() output.Data { return output.LedgerTable(rows, format == output.FormatWide) })
		},
	}
}

func newExportCommand(app appcontext.Interface) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the response ledger",
		Long: `Export writes the response ledger unchanged. A file ledger is copied
byte for byte; other drivers are rendered as CSV. Nothing is exported
when no ledger exists yet.`,
		Example: `  # Print to stdout
  reclass ledger export

  # Save a copy
  reclass ledger export --out responses-backup.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}

			// Buffer so a failed export leaves no partial file
			var buf bytes.Buffer
			if err := client.ExportLedger(&buf); err != nil {
				return err
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}

			if err := os.WriteFile(out, buf.Bytes(), constants.FilePermissions); err != nil {
				return errors.WrapPersistence("export", out, err)
			}
			_, err = fmt.Fprintf(cmd.ErrOrStderr(), "%s Exported %s to %s\n", emoji.Success, client.ExportName(), out)
			return err
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "write the export to this file instead of stdout")

	return cmd
}
