package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print in-progress index tasks as a flat table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := optionsFromFlags(cmd)
			report, err := c.core.Status(cmd.Context(), opts)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "FILE\tSTATE\n")
			for _, f := range report.Scheduled {
				fmt.Fprintf(w, "%s\tscheduled\n", f)
			}
			for _, f := range report.Executing {
				fmt.Fprintf(w, "%s\texecuting\n", f)
			}
			return w.Flush()
		},
	}
}
