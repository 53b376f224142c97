package main

import (
	"github.com/spf13/cobra"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var snapshotsPath, benchmarkPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load snapshot and benchmark CSV files into the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, st, err := openRunner(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			return runner.Seed(cmd.Context(), snapshotsPath, benchmarkPath)
		},
	}

	cmd.Flags().StringVar(&snapshotsPath, "snapshots", "", "CSV of (date,ticker,close,adj_close,volume,market_cap) rows")
	cmd.Flags().StringVar(&benchmarkPath, "benchmark", "", "CSV of (date,spy_close) rows")
	return cmd
}
