package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nightcrawler3110/eqx-index-tracker/market"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var startStr, endStr string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Sweep stored rows through the validation rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, st, err := openRunner(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			start, err := parseDateFlag(startStr)
			if err != nil {
				return err
			}
			end, err := parseDateFlag(endStr)
			if err != nil {
				return err
			}

			issues, err := runner.RunValidation(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			for _, is := range issues {
				ticker := "-"
				if is.Ticker != nil {
					ticker = *is.Ticker
				}
				fmt.Printf("%s %s %s %s\n", is.Date.Format(market.DateLayout), ticker, is.Field, is.Kind)
			}
			fmt.Printf("%d issues found\n", len(issues))
			return nil
		},
	}

	cmd.Flags().StringVar(&startStr, "start", "", "range start (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&endStr, "end", "", "range end (YYYY-MM-DD, default today)")
	return cmd
}
