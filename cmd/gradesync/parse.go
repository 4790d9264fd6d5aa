package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gradesync/internal/app"
	"gradesync/internal/config"
	"gradesync/internal/dataprocessing"
)

// Sheet kinds accepted by parse --kind
const (
	kindGrades   = "grades"
	kindHomework = "homework"
	kindAbsences = "absences"
)

func newParseCmd(opts *rootOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Decode a local sheet CSV export to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			cfg := config.Default()
			if opts.configPath != "" {
				if cfg, err = opts.loadConfig(); err != nil {
					return err
				}
			}
			decoder := dataprocessing.NewDecoder(
				dataprocessing.WithLayout(app.LayoutFromConfig(cfg.Sheets.Layout)),
				dataprocessing.WithLogger(opts.toolLogger(cfg.Logging)))

			text := string(data)
			switch kind {
			case kindGrades:
				return writeJSON(cmd.OutOrStdout(), decoder.Grades(text))
			case kindHomework:
				return writeJSON(cmd.OutOrStdout(), decoder.Homeworks(text))
			case kindAbsences:
				return writeJSON(cmd.OutOrStdout(), decoder.LectureAbsences(text))
			default:
				return fmt.Errorf("unknown kind %q, want %s, %s or %s", kind, kindGrades, kindHomework, kindAbsences)
			}
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", kindGrades, "sheet kind: grades, homework or absences")
	return cmd
}
