package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show row counts of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open()
			if err != nil {
				return err
			}
			defer c.Close()

			s, err := c.Repo.Stats(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			rows := []struct {
				label string
				n     int
			}{
				{"countries", s.Countries},
				{"agencies", s.Agencies},
				{"crew", s.Crew},
				{"rockets", s.Rockets},
				{"active rockets", s.ActiveRockets},
				{"payloads", s.Payloads},
				{"launchpads", s.Launchpads},
				{"landpads", s.Landpads},
				{"launches", s.Launches},
				{"upcoming launches", s.UpcomingLaunches},
				{"successful launches", s.SuccessfulLaunches},
				{"launch failures", s.LaunchFailures},
			}
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\n", r.label, humanize.Comma(int64(r.n)))
			}
			return w.Flush()
		},
	}
}
