package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newAuditCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the most recent changes to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open()
			if err != nil {
				return err
			}
			defer c.Close()

			entries, err := c.Repo.ListAuditEntries(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tACTION\tENTITY\tMESSAGE")
			for _, e := range entries {
				entity := string(e.Entity)
				if e.EntityID != nil {
					entity = fmt.Sprintf("%s %d", e.Entity, *e.EntityID)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", humanize.Time(e.Timestamp), e.Action, entity, e.Message)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries, 0 for all")
	return cmd
}
