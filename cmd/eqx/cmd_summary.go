package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nightcrawler3110/eqx-index-tracker/market"
)

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	var dateStr string
	var window int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Compute window summary metrics ending at a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, st, err := openRunner(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			asOf, err := parseDateFlag(dateStr)
			if err != nil {
				return err
			}
			summary, err := runner.RunSummary(cmd.Context(), asOf, window)
			if err != nil {
				return err
			}

			fmt.Printf("summary %s window=%d final_return=%.4f volatility=%.4f max_drawdown=%.4f\n",
				summary.AsOfDate.Format(market.DateLayout), summary.WindowDays,
				summary.FinalReturn, summary.Volatility, summary.MaxDrawdown)
			if summary.SharpeRatio != nil {
				fmt.Printf("sharpe=%.4f\n", *summary.SharpeRatio)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "as-of date (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&window, "window", 0, "trailing window in rows (default from config)")
	return cmd
}
