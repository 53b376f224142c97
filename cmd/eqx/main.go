// eqx is the pipeline CLI: seed the store, build the index day by day,
// derive summary metrics, sweep validations and export the report workbook.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/nightcrawler3110/eqx-index-tracker/config"
	"github.com/nightcrawler3110/eqx-index-tracker/market"
	"github.com/nightcrawler3110/eqx-index-tracker/pipeline"
	"github.com/nightcrawler3110/eqx-index-tracker/store"
)

type rootOptions struct {
	configPath string
	dbPath     string
	verbose    bool
}

func main() {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "eqx",
		Short:         "Equal-weighted index pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if opts.verbose {
				level = zerolog.DebugLevel
			}
			log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (YAML or JSON)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "path to SQLite database (overrides config)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newSeedCmd(opts),
		newRunCmd(opts),
		newSummaryCmd(opts),
		newValidateCmd(opts),
		newExportCmd(opts),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "eqx: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves the effective config and applies flag overrides.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.LoadFromFile(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.dbPath != "" {
		cfg.Store.DBPath = opts.dbPath
	}
	return cfg, nil
}

// openRunner builds a pipeline runner; the caller must Close the store.
func openRunner(opts *rootOptions) (*pipeline.Runner, *store.Store, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg.Store.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.New(st, cfg), st, nil
}

func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return market.Day(time.Now().UTC()), nil
	}
	d, err := market.ParseDay(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return d, nil
}
