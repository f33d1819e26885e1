package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/tfkr-ae/rocketdb/domain"
)

func newLaunchesCmd(a *app) *cobra.Command {
	var (
		from, to, rocket string
		upcoming         bool
		limit, offset    int
	)

	cmd := &cobra.Command{
		Use:   "launches",
		Short: "List launches in chronological order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			filter := domain.LaunchFilter{Limit: limit, Offset: offset}

			for _, bound := range []struct {
				flag  string
				value string
				dst   **time.Time
			}{{"from", from, &filter.From}, {"to", to, &filter.To}} {
				if bound.value == "" {
					continue
				}
				t, err := time.Parse(time.DateOnly, bound.value)
				if err != nil {
					return fmt.Errorf("--%s must be a YYYY-MM-DD date : %w", bound.flag, err)
				}
				*bound.dst = &t
			}
			if cmd.Flags().Changed("upcoming") {
				filter.Upcoming = &upcoming
			}

			c, err := a.open()
			if err != nil {
				return err
			}
			defer c.Close()

			if rocket != "" {
				r, err := c.Repo.FindRocketByName(ctx, rocket)
				if err != nil {
					return fmt.Errorf("finding rocket %q : %w", rocket, err)
				}
				filter.RocketID = &r.ID
			}

			launches, err := c.Repo.ListLaunches(ctx, filter)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE (UTC)\tFLIGHT\tNAME\tOUTCOME")
			for _, l := range launches {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", l.Date().Format(time.DateTime), l.FlightNumber, l.Name, outcome(l))
			}
			return w.Flush()
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&from, "from", "", "first day to include (YYYY-MM-DD)")
	flags.StringVar(&to, "to", "", "first day to exclude (YYYY-MM-DD)")
	flags.StringVar(&rocket, "rocket", "", "only launches of this rocket")
	flags.BoolVar(&upcoming, "upcoming", false, "only upcoming launches, or only past ones with --upcoming=false")
	flags.IntVar(&limit, "limit", 0, "maximum number of launches")
	flags.IntVar(&offset, "offset", 0, "launches to skip")
	return cmd
}

func outcome(l *domain.Launch) string {
	switch {
	case l.Upcoming:
		return "upcoming"
	case l.Success:
		return "success"
	default:
		return "failure"
	}
}
