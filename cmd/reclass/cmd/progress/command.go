// Package progress provides the progress command.
package progress

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/reclass/internal/appcontext"
	"github.com/agentstation/reclass/internal/cmd/output"
)

// NewCommand creates the progress command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show how many records are completed",
		Long: `Progress counts the master records that already have a row in the
response ledger. Skips belong to a session, so the skipped count is
always zero here.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			p, err := client.Progress(nil)
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), p,
				func() output.Data { return output.ProgressTable(p) })
		},
	}
}
