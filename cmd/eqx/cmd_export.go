package main

import (
	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored metrics to an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, st, err := openRunner(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			return runner.Export(cmd.Context(), outPath)
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "output .xlsx path (default from config)")
	return cmd
}
