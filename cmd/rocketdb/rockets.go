package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/tfkr-ae/rocketdb"
)

func newRocketsCmd(a *app) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "rockets",
		Short: "List rockets by first flight, one page at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open()
			if err != nil {
				return err
			}
			defer c.Close()

			result, err := c.RocketsPage(cmd.Context(), page)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFIRST FLIGHT\tCOST PER LAUNCH\tSUCCESS\tACTIVE")
			for _, r := range result.Rockets {
				firstFlight := r.FirstFlight
				if firstFlight == "" {
					firstFlight = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t$%s\t%s%%\t%t\n",
					r.Name, firstFlight, humanize.Comma(r.CostPerLaunch), humanize.Ftoa(r.SuccessRatePct), r.Active)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			writePagination(out, result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "page to show, starting at 1")
	return cmd
}

// writePagination prints the page links of a listing, marking the current page.
func writePagination(w io.Writer, page *rocketdb.RocketPage) {
	if page.TotalPages == 0 {
		fmt.Fprintln(w, "no rockets")
		return
	}

	links := make([]string, len(page.Range))
	for i, n := range page.Range {
		switch {
		case n == rocketdb.Ellipsis:
			links[i] = "…"
		case n == page.Page:
			links[i] = "[" + strconv.Itoa(n) + "]"
		default:
			links[i] = strconv.Itoa(n)
		}
	}
	fmt.Fprintf(w, "page %d of %d (%s rockets): %s\n", page.Page, page.TotalPages, humanize.Comma(int64(page.Total)), strings.Join(links, " "))
}
