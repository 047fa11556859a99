// Package commands implements the CLI commands for the hostbuild tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/hostbuild/internal/app"
	"go.trai.ch/hostbuild/internal/build"
	"go.trai.ch/hostbuild/internal/core/domain"
	"go.trai.ch/hostbuild/internal/core/ports"
)

// CLI represents the command line interface for hostbuild.
type CLI struct {
	app       Application
	verbosity VerbositySetter
	rootCmd   *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, targetNames []string, opts app.RunOptions) error
	List(opts app.RunOptions) ([]domain.Target, error)
	Status() ([]domain.RunRecord, error)
	Clean(opts app.RunOptions) error
}

// VerbositySetter is implemented by loggers that can switch to debug output.
type VerbositySetter interface {
	SetVerbose(verbose bool)
}

// Option configures the CLI.
type Option func(*CLI)

// WithLogger lets --verbose raise the level of logger when it supports it.
func WithLogger(logger ports.Logger) Option {
	return func(c *CLI) {
		if v, ok := logger.(VerbositySetter); ok {
			c.verbosity = v
		}
	}
}

// New creates a new CLI instance with the given app.
func New(a Application, opts ...Option) *CLI {
	rootCmd := &cobra.Command{
		Use:           "hostbuild",
		Short:         "Restore, build and run the host test suite",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))

	// Persistent flags go first so the default version flag leaves -v to --verbose.
	rootCmd.PersistentFlags().StringP("config", "f", domain.ConfigFileName, "Path to the build configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	for _, opt := range opts {
		opt(c)
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose && c.verbosity != nil {
			c.verbosity.SetVerbose(true)
		}
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// runOptions collects the config path shared by every subcommand.
func runOptions(cmd *cobra.Command) app.RunOptions {
	configPath, _ := cmd.Flags().GetString("config")
	return app.RunOptions{ConfigPath: configPath}
}
