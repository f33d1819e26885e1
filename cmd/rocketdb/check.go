package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tfkr-ae/rocketdb/domain"
)

func newCheckCmd(a *app) *cobra.Command {
	var repair bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compare launchpad and landpad counters with the launches table",
		Long: `Recomputes every launchpad and landpad counter from the launches that reference it.
Disagreements are listed and the command fails, unless --repair is given, in which case the
stored counters are overwritten with the recomputed ones.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open()
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			n, err := c.Reconcile(cmd.Context(), repair)
			var drift *domain.AggregateDriftError
			if errors.As(err, &drift) {
				for _, d := range drift.Drifts {
					fmt.Fprintln(out, d)
				}
			}
			if err != nil {
				return err
			}

			if n > 0 {
				fmt.Fprintf(out, "repaired %d site(s)\n", n)
				return nil
			}
			fmt.Fprintln(out, "all site counters agree with launches")
			return nil
		},
	}

	cmd.Flags().BoolVar(&repair, "repair", false, "overwrite drifted counters")
	return cmd
}
