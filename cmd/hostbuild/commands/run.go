package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [targets...]",
		Short: "Run targets and their dependencies (default: Test)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := runOptions(cmd)
			opts.Configuration, _ = cmd.Flags().GetString("configuration")
			opts.RepoRoot, _ = cmd.Flags().GetString("repo-root")

			return c.app.Run(cmd.Context(), args, opts)
		},
	}
	cmd.Flags().StringP("configuration", "c", "", "Build configuration: Debug or Release")
	cmd.Flags().String("repo-root", "", "Override the repository root from the config file")
	return cmd
}
