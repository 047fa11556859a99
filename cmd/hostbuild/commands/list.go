package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List targets in declaration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targets, err := c.app.List(runOptions(cmd))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "TARGET\tDEPENDS ON\tDESCRIPTION")
			for _, t := range targets {
				deps := "-"
				if len(t.Dependencies) > 0 {
					deps = strings.Join(t.Dependencies, ", ")
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, deps, t.Description)
			}
			return w.Flush()
		},
	}
}
