package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"gradesync/internal/app"
	"gradesync/internal/dataprocessing"
	"gradesync/pkg/contracts/domain"
)

// fetchSummary is printed by the fetch command
type fetchSummary struct {
	LoadedAt        time.Time              `json:"loaded_at"`
	Grades          int                    `json:"grades"`
	Homeworks       int                    `json:"homeworks"`
	LectureAbsences int                    `json:"lecture_absences"`
	Subjects        []string               `json:"subjects"`
	Ranking         []domain.RankedStudent `json:"ranking"`
}

func summarize(ds domain.Dataset) fetchSummary {
	s := fetchSummary{
		LoadedAt:        ds.LoadedAt,
		Grades:          len(ds.Grades),
		Homeworks:       len(ds.Homeworks),
		LectureAbsences: len(ds.LectureAbsences),
		Subjects:        []string{},
		Ranking:         dataprocessing.Ranking(ds.Grades),
	}
	for _, g := range dataprocessing.GroupBySubject(ds.Grades) {
		s.Subjects = append(s.Subjects, g.Subject)
	}
	return s
}

func newFetchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Load all three sheets once and print a JSON summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			loader := app.NewSheetLoader(cfg.Sheets, opts.toolLogger(cfg.Logging), nil, nil)

			ds, err := loader.LoadAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch failed: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), summarize(ds))
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
