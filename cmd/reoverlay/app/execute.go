package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/embeddedllama/reoverlay/internal/manifest"
	"github.com/embeddedllama/reoverlay/pkg/overlay"
)

// Execute runs the reoverlay CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command. Running the bare command
// performs the reconciliation; there are no required arguments.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "reoverlay",
		Short:   "Reapply the embedded-llama fork overlays",
		Version: a.version,
		Long: `Reoverlay reconciles the fork's project files against their desired
overlay state, so the fork's customizations survive re-synchronization with
upstream llama.cpp.

Running it against files already in the desired state is a no-op; running it
against freshly-reset upstream files re-applies the fork's deltas. Any
unexpected upstream drift (unrecognized document shape, missing anchor) halts
the run before anything is written.`,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setupCommand,
		RunE:              a.runReapply,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.reoverlay.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&a.config.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.Flags().StringVarP(&a.config.RepoRoot, "repo", "C", "", "repository root to reconcile (default \".\")")
	rootCmd.Flags().StringVar(&a.config.ManifestPath, "manifest", "", "overlay manifest file (default: built-in embedded-llama overlays)")
	rootCmd.Flags().BoolVarP(&a.config.DryRun, "dry-run", "n", false, "report changes without writing any file")

	rootCmd.SetVersionTemplate("reoverlay {{.Version}}\n")

	rootCmd.AddCommand(a.newVersionCommand())

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	logLevel := mustGetString(cmd, "log-level")

	dryRun := false
	repoRoot := ""
	manifestPath := ""
	if cmd.Flags().Lookup("dry-run") != nil {
		dryRun = mustGetBool(cmd, "dry-run")
		repoRoot = mustGetString(cmd, "repo")
		manifestPath = mustGetString(cmd, "manifest")
	}

	a.config.UpdateFromFlags(verbose, quiet, noColor, dryRun, repoRoot, manifestPath, logLevel)

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// runReapply executes the full reconciliation pass and prints the one-line
// summary to stdout.
func (a *App) runReapply(cmd *cobra.Command, _ []string) error {
	m := manifest.Default()
	if a.config.ManifestPath != "" {
		loaded, err := manifest.Load(a.config.ManifestPath)
		if err != nil {
			return err
		}
		m = loaded
		a.logger.Debug().Str("manifest", a.config.ManifestPath).Msg("Loaded overlay manifest")
	}

	opts := []overlay.Option{overlay.WithLogger(a.logger)}
	if a.config.DryRun {
		opts = append(opts, overlay.WithDryRun())
	}

	runner := overlay.New(a.config.RepoRoot, m.Overlays(), opts...)
	report, err := runner.Run()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.Summary())
	return nil
}

// newVersionCommand creates the version subcommand.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "reoverlay %s (commit %s, built %s)\n", a.version, a.commit, a.date)
		},
	}
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
