// Package commands implements the indexcore CLI's subcommands.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.indexbridge.dev/core/internal/app"
)

// version is the CLI's own version string; this harness has no release
// pipeline of its own, so it is not threaded through build-time ldflags.
const version = "0.1.0"

// Core is the subset of *app.App the CLI drives.
type Core interface {
	Reload(ctx context.Context, opts app.Options) error
	Index(ctx context.Context, opts app.Options, files []string) error
	Watch(ctx context.Context, opts app.Options) error
	Status(ctx context.Context, opts app.Options) (app.StatusReport, error)
}

// CLI represents the indexcore command line interface.
type CLI struct {
	core    Core
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given core.
func New(core Core) *CLI {
	rootCmd := &cobra.Command{
		Use:           "indexcore",
		Short:         "Drive the SwiftPM semantic-index core standalone, without an LSP client",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	rootCmd.PersistentFlags().StringP("root", "r", ".", "Package root to operate on")
	rootCmd.PersistentFlags().String("configuration", "", "Build configuration override: debug or release")
	rootCmd.PersistentFlags().Bool("index-only", false, "Allow fetching unresolved dependencies instead of requiring resolved versions")
	rootCmd.PersistentFlags().StringP("output", "o", "auto", "Output styling: auto, color, plain, or ci")

	c := &CLI{core: core, rootCmd: rootCmd}

	rootCmd.AddCommand(c.newReloadCmd())
	rootCmd.AddCommand(c.newIndexCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newStatusCmd())

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

// optionsFromFlags builds app.Options from the persistent flags common to
// every subcommand.
func optionsFromFlags(cmd *cobra.Command) app.Options {
	root, _ := cmd.Flags().GetString("root")
	configuration, _ := cmd.Flags().GetString("configuration")
	indexOnly, _ := cmd.Flags().GetBool("index-only")
	output, _ := cmd.Flags().GetString("output")

	return app.Options{
		Root:          root,
		Configuration: configurationFromFlag(configuration),
		IndexOnly:     indexOnly,
		OutputFlag:    output,
	}
}
