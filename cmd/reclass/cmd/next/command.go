// Package next provides the next command.
package next

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/reclass/internal/appcontext"
	"github.com/agentstation/reclass/internal/cmd/output"
)

// NewCommand creates the next command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the first record that still needs review",
		Long: `Next starts a fresh session and shows the first master record with
no row in the response ledger. When every record is completed it reports
that the review is done.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			s := client.NewSession()
			defer client.EndSession(s)

			res, err := client.NextUnresolved(s)
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), res,
				func() output.Data { return output.ResultTable(res) })
		},
	}
}
