package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/reclass/internal/cmd/output"
	"github.com/agentstation/reclass/pkg/errors"
)

// Execute runs the reclass CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "reclass",
		Short:   "Space reclassification review CLI",
		Version: a.version,
		Long: `Reclass walks a reviewer through a catalog of space records and
records a corrected name, type and category for each one.

Records come from the master file, valid classifications come from the
hierarchy options file, and every accepted reclassification is appended
to the response ledger. Records already in the ledger are never shown
again; skipped records come back in the next session.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "review",
		Title: "Review Commands:",
	})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "data",
		Title: "Data Commands:",
	})

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.reclass.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "output format: table, json, yaml, wide")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	// Source flags default to the loaded configuration
	flags.StringVar(&a.config.MasterPath, "master", a.config.MasterPath, "master records file (csv, tsv or xlsx)")
	flags.StringVar(&a.config.HierarchyPath, "hierarchy", a.config.HierarchyPath, "hierarchy options file (csv, tsv or xlsx)")
	flags.StringVar(&a.config.LedgerPath, "ledger", a.config.LedgerPath, "response ledger location")
	flags.StringVar(&a.config.LedgerDriver, "ledger-driver", a.config.LedgerDriver, "ledger driver: file or sqlite")

	rootCmd.SetVersionTemplate("reclass {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// These flags are defined as persistent flags in createRootCommand, so errors indicate programming errors
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	format := mustGetString(cmd, "format")
	logLevel := mustGetString(cmd, "log-level")

	if cmd.Flags().Changed("config") {
		if err := a.applyConfigFile(cmd, mustGetString(cmd, "config")); err != nil {
			return err
		}
	}

	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel)

	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return errors.NewValidationError("format", a.config.Format, err.Error())
	}

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// applyConfigFile loads an explicit --config file. Values from it replace
// the loaded configuration except where a flag was set on the command line.
func (a *App) applyConfigFile(cmd *cobra.Command, path string) error {
	fileConfig, err := LoadConfigFile(path)
	if err != nil {
		return err
	}

	keep := func(flag string, current, fromFile string) string {
		if cmd.Flags().Changed(flag) {
			return current
		}
		return fromFile
	}

	fileConfig.MasterPath = keep("master", a.config.MasterPath, fileConfig.MasterPath)
	fileConfig.HierarchyPath = keep("hierarchy", a.config.HierarchyPath, fileConfig.HierarchyPath)
	fileConfig.LedgerPath = keep("ledger", a.config.LedgerPath, fileConfig.LedgerPath)
	fileConfig.LedgerDriver = keep("ledger-driver", a.config.LedgerDriver, fileConfig.LedgerDriver)

	*a.config = *fileConfig
	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
