// Command rocketdb manages a spaceflight catalog from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tfkr-ae/rocketdb"
	"github.com/tfkr-ae/rocketdb/logging"
	"github.com/tfkr-ae/rocketdb/metrics"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	viper       *viper.Viper
	configFile  string
	metricsFile string
	registry    *prometheus.Registry
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{viper: rocketdb.NewViper()}

	root := &cobra.Command{
		Use:           "rocketdb",
		Short:         "Spaceflight catalog store",
		Long:          "rocketdb keeps a relational catalog of agencies, rockets, launch sites, payloads, crew and launches.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.writeMetrics()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./rocketdb.yaml)")
	flags.String("driver", "", "database driver: sqlite or pgx")
	flags.String("dsn", "", "sqlite file path or PostgreSQL connection string")
	flags.String("log-env", "", "log configuration: production or development")
	flags.Int("page-size", 0, "rockets per listing page")
	flags.StringVar(&a.metricsFile, "metrics-file", "", "write store metrics in Prometheus text format to this file")

	for key, flag := range map[string]string{"driver": "driver", "dsn": "dsn", "log_env": "log-env", "page_size": "page-size"} {
		_ = a.viper.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newMigrateCmd(a),
		newSeedCmd(a),
		newRocketsCmd(a),
		newLaunchesCmd(a),
		newCheckCmd(a),
		newDeleteCmd(a),
		newStatsCmd(a),
		newAuditCmd(a),
	)
	return root
}

// open loads the configuration and opens the catalog it names.
func (a *app) open() (*rocketdb.Catalog, error) {
	cfg, err := rocketdb.LoadConfig(a.viper, a.configFile)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogEnv)
	if err != nil {
		return nil, err
	}

	options := []func(*rocketdb.Catalog) error{
		rocketdb.WithConfig(cfg),
		rocketdb.WithLogger(logger),
	}
	if a.metricsFile != "" {
		a.registry = prometheus.NewRegistry()
		options = append(options, rocketdb.WithMetrics(metrics.NewRegistry(a.registry)))
	}
	return rocketdb.New(options...)
}

func (a *app) writeMetrics() error {
	if a.metricsFile == "" || a.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.metricsFile, a.registry); err != nil {
		return fmt.Errorf("writing metrics to %s : %w", a.metricsFile, err)
	}
	return nil
}
