// Package options provides the options command.
package options

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/reclass/internal/appcontext"
	"github.com/agentstation/reclass/internal/cmd/output"
)

// NewCommand creates the options command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var typ string

	cmd := &cobra.Command{
		Use:   "options [name]",
		Short: "Show the cascading classification choices",
		Long: `Options lists every distinct space name. Given a name it also lists
the types and the categories offered for that name. Categories depend on
the name only; --type does not narrow them.`,
		Example: `  # All names
  reclass options

  # Types and categories for one name
  reclass options "Conference Room"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			c := client.CascadeOptions(name, typ)
			return output.Write(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), c,
				func() output.Data { return output.CascadeTable(c) })
		},
	}

	cmd.Flags().StringVar(&typ, "type", "", "chosen space type")

	return cmd
}
