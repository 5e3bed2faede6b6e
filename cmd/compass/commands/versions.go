package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions <reference>",
		Short: "List the tags and branches a component can be resolved at",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Versions(cmd.Context(), args[0], outputOptions(cmd))
		},
	}
}
