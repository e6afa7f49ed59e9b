package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Discover the package root and run a single reload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := optionsFromFlags(cmd)
			if err := c.core.Reload(cmd.Context(), opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reloaded %s\n", opts.Root)
			return nil
		},
	}
}
