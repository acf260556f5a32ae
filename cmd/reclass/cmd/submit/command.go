// Package submit provides the submit command.
package submit

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/reclass/internal/appcontext"
	"github.com/agentstation/reclass/internal/cmd/emoji"
	"github.com/agentstation/reclass/internal/cmd/output"
	"github.com/agentstation/reclass/pkg/reconcile"
)

// NewCommand creates the submit command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var (
		sel   reconcile.Selection
		alias string
	)

	cmd := &cobra.Command{
		Use:   "submit ID",
		Short: "Record the reclassification of one record",
		Long: `Submit appends one reclassification to the response ledger without
an interactive session. The name, type and category must be offered by
the hierarchy: the type and the category must both belong to the name.`,
		Example: `  reclass submit 1042 --name "Conference Room" --type Office --category Meeting --alias "Board Room"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			if err := client.CheckSelection(sel); err != nil {
				return err
			}

			s := client.NewSession()
			defer client.EndSession(s)

			sub, err := client.Submit(s, args[0], sel, alias)
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			if format == output.FormatJSON || format == output.FormatYAML {
				return output.Write(cmd.OutOrStdout(), format, sub, nil)
			}
			w := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(w, "%s Recorded %s as %s / %s / %s\n", emoji.Success,
				sub.Response.ID, sub.Response.NewSpaceName, sub.Response.NewType, sub.Response.NewCategory); err != nil {
				return err
			}
			if sub.Next.AllComplete() {
				_, err = fmt.Fprintf(w, "%s All records are complete\n", emoji.Info)
				return err
			}
			_, err = fmt.Fprintf(w, "Next: %s (%s)\n", sub.Next.Record.ID, sub.Next.Record.SpaceAliasName)
			return err
		},
	}

	cmd.Flags().StringVar(&sel.Name, "name", "", "new space name (required)")
	cmd.Flags().StringVar(&sel.Type, "type", "", "new space type (required)")
	cmd.Flags().StringVar(&sel.Category, "category", "", "new space category (required)")
	cmd.Flags().StringVar(&alias, "alias", "", "new space alias name")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}
