package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/reclass/cmd/reclass/cmd/hierarchy"
	"github.com/agentstation/reclass/cmd/reclass/cmd/ledger"
	"github.com/agentstation/reclass/cmd/reclass/cmd/next"
	"github.com/agentstation/reclass/cmd/reclass/cmd/options"
	"github.com/agentstation/reclass/cmd/reclass/cmd/progress"
	"github.com/agentstation/reclass/cmd/reclass/cmd/review"
	"github.com/agentstation/reclass/cmd/reclass/cmd/serve"
	"github.com/agentstation/reclass/cmd/reclass/cmd/submit"
	"github.com/agentstation/reclass/cmd/reclass/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Review commands
	rootCmd.AddCommand(withGroup("review", review.NewCommand(a)))
	rootCmd.AddCommand(withGroup("review", next.NewCommand(a)))
	rootCmd.AddCommand(withGroup("review", submit.NewCommand(a)))
	rootCmd.AddCommand(withGroup("review", progress.NewCommand(a)))
	rootCmd.AddCommand(withGroup("review", serve.NewCommand(a)))

	// Data commands
	rootCmd.AddCommand(withGroup("data", options.NewCommand(a)))
	rootCmd.AddCommand(withGroup("data", hierarchy.NewCommand(a)))
	rootCmd.AddCommand(withGroup("data", ledger.NewCommand(a)))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
}

func withGroup(id string, cmd *cobra.Command) *cobra.Command {
	cmd.GroupID = id
	return cmd
}
