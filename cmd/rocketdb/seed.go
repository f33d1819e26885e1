package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tfkr-ae/rocketdb/seed"
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed FILE",
		Short: "Load a catalog JSON document",
		Long: `Loads the countries, agencies, crew, rockets, payloads, sites and launches of a JSON
document. Rows refer to each other by name, and may refer to rows already in the catalog.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := seed.DecodeFile(args[0])
			if err != nil {
				return err
			}

			c, err := a.open()
			if err != nil {
				return err
			}
			defer c.Close()

			summary, err := seed.Insert(cmd.Context(), c.Repo, doc)
			if err != nil {
				c.Logger.Errorw("seed stopped", "file", args[0], "loaded", summary.Map(), "error", err)
				return fmt.Errorf("seeding from %s : %w", args[0], err)
			}
			c.Logger.Infow("seed finished", "file", args[0], "loaded", summary.Map())

			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d countries, %d agencies, %d crew, %d rockets, %d payloads, %d launchpads, %d landpads, %d launches, %d failures\n",
				summary.Countries, summary.Agencies, summary.Crew, summary.Rockets, summary.Payloads,
				summary.Launchpads, summary.Landpads, summary.Launches, summary.Failures)
			return nil
		},
	}
}
