package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the component cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "invalidate <reference|pattern>",
		Short: "Drop cached entries of a component or matching a key pattern",
		Example: "  compass cache invalidate gitlab.com/my-group/ci/lint\n" +
			"  compass cache invalidate 'component:gitlab.com/my-group/*'",
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return c.app.Invalidate(args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Drop every cached entry",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.app.Reset()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show cache usage counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Stats(outputOptions(cmd))
		},
	})

	return cmd
}
