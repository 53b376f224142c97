package main

import (
	"github.com/spf13/cobra"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var dateStr, startStr, endStr string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the index and daily metrics for a date or date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, st, err := openRunner(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			if startStr != "" || endStr != "" {
				start, err := parseDateFlag(startStr)
				if err != nil {
					return err
				}
				end, err := parseDateFlag(endStr)
				if err != nil {
					return err
				}
				return runner.RunRange(cmd.Context(), start, end)
			}

			date, err := parseDateFlag(dateStr)
			if err != nil {
				return err
			}
			return runner.RunDate(cmd.Context(), date)
		},
	}

	cmd.Flags().StringVar(&dateStr, "date", "", "date to process (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&startStr, "start", "", "range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endStr, "end", "", "range end (YYYY-MM-DD)")
	return cmd
}
