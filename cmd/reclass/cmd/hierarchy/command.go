// Package hierarchy provides the hierarchy command and its subcommands.
package hierarchy

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/reclass/internal/appcontext"
	"github.com/agentstation/reclass/internal/cmd/emoji"
	"github.com/agentstation/reclass/internal/cmd/output"
	"github.com/agentstation/reclass/pkg/hierarchy"
)

// NewCommand creates the hierarchy command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hierarchy",
		Aliases: []string{"h"},
		Short:   "List or extend the hierarchy options",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newAddCommand(app))

	return cmd
}

func newListCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every hierarchy option",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			opts := client.HierarchyOptions()
			return output.Write(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), opts, nil)
		},
	}
}

func newAddCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME TYPE CATEGORY",
		Short: "Append a new hierarchy option",
		Long: `Add appends a (name, type, category) option to the hierarchy source.
The three values are trimmed and must not be empty. The option is offered
immediately by every review adapter.`,
		Example: `  reclass hierarchy add "Conference Room" Office Meeting`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			opt, err := client.AddHierarchyEntry(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			app.Logger().Debug().
				Str("name", opt.Name).
				Str("type", opt.Type).
				Str("category", opt.Category).
				Msg("Hierarchy option added")

			format := output.DetectFormat(app.OutputFormat())
			if format == output.FormatJSON || format == output.FormatYAML {
				return output.Write(cmd.OutOrStdout(), format, opt, nil)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s Added %s\n", emoji.Success, describe(opt))
			return err
		},
	}
}

func describe(o hierarchy.Option) string {
	return fmt.Sprintf("%s / %s / %s", o.Name, o.Type, o.Category)
}
