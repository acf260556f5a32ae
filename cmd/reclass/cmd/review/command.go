// Package review provides the interactive review command.
package review

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/agentstation/reclass/internal/appcontext"
	"github.com/agentstation/reclass/internal/tui"
)

// NewCommand creates the review command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var inline bool

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review records interactively in the terminal",
		Long: `Review opens a terminal session that presents unresolved records one
at a time. Pick a name, a type and a category, optionally type a new
alias, then submit or skip. Skipped records return in the next session.

Keys:
  tab/shift+tab  move between the alias and the pickers
  up/down        change the choice in a picker
  ctrl+s         submit the reclassification
  ctrl+k         skip the record
  ctrl+a         add a hierarchy option
  esc, ctrl+c    end the session`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}
			s := client.NewSession()
			defer client.EndSession(s)

			opts := []tea.ProgramOption{
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			}
			if !inline {
				opts = append(opts, tea.WithAltScreen())
			}
			return tui.Run(client, s, app.Logger(), opts...)
		},
	}

	cmd.Flags().BoolVar(&inline, "inline", false, "render in the current screen instead of the alternate screen")

	return cmd
}
