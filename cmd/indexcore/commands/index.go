package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index [files...]",
		Short: "Wait for an up-to-date index of the given files, or every file if none are given",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := optionsFromFlags(cmd)
			if err := c.core.Index(cmd.Context(), opts, args); err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "index up to date for all files")
				return nil
			}
			for _, f := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: up to date\n", f)
			}
			return nil
		},
	}
}
