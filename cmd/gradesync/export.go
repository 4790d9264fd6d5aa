package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gradesync/internal/app"
	"gradesync/internal/exporter"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Fetch the sheets and write them to an .xlsx workbook or a grades .csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := exporter.FormatFromPath(out); err != nil {
				return err
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			loader := app.NewSheetLoader(cfg.Sheets, opts.toolLogger(cfg.Logging), nil, nil)

			ds, err := loader.LoadAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch failed: %w", err)
			}
			if err := exporter.ExportFile(out, ds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d grade records to %s\n", len(ds.Grades), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, .xlsx or .csv")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
