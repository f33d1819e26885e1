package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the catalog schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open()
			if err != nil {
				return err
			}
			defer c.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "%s catalog at %s is up to date\n", c.Config.Driver, c.Config.DSN)
			return nil
		},
	}
}
