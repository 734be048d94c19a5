package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/reelmap/cmd/application"
	"github.com/agentstation/reelmap/cmd/reelmap/cmd/build"
	"github.com/agentstation/reelmap/cmd/reelmap/cmd/fetch"
	"github.com/agentstation/reelmap/cmd/reelmap/cmd/stats"
	"github.com/agentstation/reelmap/cmd/reelmap/cmd/version"
	"github.com/agentstation/reelmap/cmd/reelmap/cmd/vocab"
	"github.com/agentstation/reelmap/internal/cmd/output"
	"github.com/agentstation/reelmap/pkg/errors"
)

// Execute runs the root command with args, which exclude the program name.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "reelmap",
		Short:   "Movie dataset reconciliation CLI",
		Version: a.build.Version,
		Long: `Reelmap downloads the MovieLens small dataset, the Kaggle movies
metadata catalog and the IMDb ratings dump, and reconciles them into one
table keyed by MovieLens movie id, with one indicator column per genre.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Pipeline Commands:"},
		&cobra.Group{ID: "analysis", Title: "Analysis Commands:"},
	)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is ./.reelmap.yaml or $HOME/.reelmap.yaml)")
	flags.BoolVarP(&a.config.Verbose, "verbose", "v", a.config.Verbose, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.config.Quiet, "quiet", "q", a.config.Quiet, "minimal output (shortcut for --log-level=warn)")
	flags.BoolVar(&a.config.NoColor, "no-color", a.config.NoColor, "disable colored output")
	flags.StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: table, json, yaml, wide")
	flags.StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.String("data-dir", "", "directory holding the downloaded datasets")
	flags.Int("workers", 0, "goroutines used to parse the genre field")

	rootCmd.SetVersionTemplate("reelmap {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand merges the persistent flags into the settings and rebuilds
// the logger. It runs before every subcommand.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	format := flagValue(flags.GetString, "format")
	if _, err := output.ParseFormat(format); err != nil {
		return &errors.ValidationError{Field: "format", Value: format, Message: err.Error()}
	}

	if flags.Changed("config") {
		cfg, err := LoadConfig(flagValue(flags.GetString, "config"))
		if err != nil {
			return err
		}
		a.config = cfg
	}
	a.config.UpdateFromFlags(
		flagValue(flags.GetBool, "verbose"),
		flagValue(flags.GetBool, "quiet"),
		flagValue(flags.GetBool, "no-color"),
		format,
		flagValue(flags.GetString, "log-level"),
	)

	if flags.Changed("data-dir") {
		a.config.Pipeline.DataDir = flagValue(flags.GetString, "data-dir")
	}
	if flags.Changed("workers") {
		a.config.Pipeline.Workers = flagValue(flags.GetInt, "workers")
	}
	if err := a.config.Pipeline.Validate(); err != nil {
		return err
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	return nil
}

func (a *App) registerCommands(rootCmd *cobra.Command) {
	for _, newCmd := range []func(application.Application) *cobra.Command{
		fetch.NewCommand,
		build.NewCommand,
		stats.NewCommand,
		vocab.NewCommand,
		version.NewCommand,
	} {
		rootCmd.AddCommand(newCmd(a))
	}
}

// ExitOnError prints err to stderr and exits with status 1. Nil is a no-op.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	_, _ = os.Stderr.WriteString(err.Error() + "\n")
	os.Exit(1)
}

// flagValue reads a flag this package registered. A lookup failure is a
// programming error.
func flagValue[T any](get func(string) (T, error), name string) T {
	v, err := get(name)
	if err != nil {
		panic("flag " + name + ": " + err.Error())
	}
	return v
}
