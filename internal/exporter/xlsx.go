package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"gradesync/internal/dataprocessing"
	"gradesync/pkg/contracts/domain"
)

// Sheet names of the exported workbook
const (
	SheetGrades          = "Grades"
	SheetLectureAbsences = "LectureAbsences"
	SheetHomework        = "Homework"
	SheetRanking         = "Ranking"
)

// WriteWorkbook writes ds as an XLSX workbook with one sheet per record kind
func WriteWorkbook(w io.Writer, ds domain.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sheets := []struct {
		name    string
		headers []string
		rows    [][]string
	}{
		{SheetGrades, gradeHeaders, mapRows(ds.Grades, gradeRow)},
		{SheetLectureAbsences, absenceHeaders, mapRows(ds.LectureAbsences, absenceRow)},
		{SheetHomework, homeworkHeaders, mapRows(ds.Homeworks, homeworkRow)},
		{SheetRanking, rankingHeaders, mapRows(dataprocessing.Ranking(ds.Grades), rankingRow)},
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return fmt.Errorf("failed to rename default sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s.name, s.headers, s.rows, headerStyle); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]string, headerStyle int) error {
	if err := setRow(f, sheet, 1, headers); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze %s header: %w", sheet, err)
	}

	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 18)
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func mapRows[T any](records []T, row func(T) []string) [][]string {
	out := make([][]string, 0, len(records))
	for _, r := range records {
		out = append(out, row(r))
	}
	return out
}
