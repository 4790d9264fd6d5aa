package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"gradesync/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteGradesCSV writes grade records as CSV with a leading BOM and a header row
func WriteGradesCSV(w io.Writer, records []domain.GradeRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, gradeRow(r))
	}
	return writeCSV(w, gradeHeaders, rows)
}

func writeCSV(w io.Writer, headers []string, rows [][]string) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
