package dataprocessing

import (
	"regexp"
	"strings"
)

// BlockLayout describes where subject blocks sit in a pivot sheet
type BlockLayout struct {
	// Offsets are the zero-based row indexes where blocks start
	Offsets []int `yaml:"offsets"`
	// Height is the number of rows per block, header and topic rows included
	Height int `yaml:"height"`
	// FirstGradeColumn is the first column holding per-topic grade cells
	FirstGradeColumn int `yaml:"first_grade_column"`
	// FirstAbsenceColumn is the first column scanned in lecture-absence sheets
	FirstAbsenceColumn int `yaml:"first_absence_column"`
}

// Default block geometry of the published sheets
const (
	DefaultBlockHeight = 18
	DefaultBlockCount  = 10
	minRowsForData     = 3
	studentIDColumn    = 0
	studentNameColumn  = 1
	subjectAvgColumn   = 2
	subjectNameColumn  = 0
)

// DefaultLayout returns ten 18-row blocks starting at row 0, grades from
// column 3 and absences from column 2.
func DefaultLayout() BlockLayout {
	offsets := make([]int, DefaultBlockCount)
	for i := range offsets {
		offsets[i] = i * DefaultBlockHeight
	}
	return BlockLayout{
		Offsets:            offsets,
		Height:             DefaultBlockHeight,
		FirstGradeColumn:   3,
		FirstAbsenceColumn: 2,
	}
}

var lineBreak = regexp.MustCompile(`\r?\n`)

// splitRows strips a leading byte-order mark, trims the text and splits it
// into lines. Empty text yields no lines.
func splitRows(text string) []string {
	text = strings.TrimPrefix(text, "\uFEFF")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return lineBreak.Split(text, -1)
}

// block is one subject's slice of a pivot sheet
type block struct {
	offset  int
	subject string
	header  []string
	topics  []string
	rows    []string
}

// blocks cuts rows into subject blocks. Blocks past the end of the sheet,
// blocks without a topic row and blocks whose subject cell is blank are left
// out.
func (l BlockLayout) blocks(rows []string) []block {
	var out []block
	for _, start := range l.Offsets {
		if start < 0 || start+1 >= len(rows) {
			continue
		}

		header := TokenizeRow(rows[start])
		subject := cell(header, subjectNameColumn)
		if subject == "" {
			continue
		}

		end := start + l.Height
		if end > len(rows) {
			end = len(rows)
		}
		var data []string
		if start+2 < end {
			data = rows[start+2 : end]
		}

		out = append(out, block{
			offset:  start,
			subject: subject,
			header:  header,
			topics:  TokenizeRow(rows[start+1]),
			rows:    data,
		})
	}
	return out
}

// column is one grid column seen through the header, topic and data rows at
// the same index
type column struct {
	index int
	date  string
	topic string
	value string
}

// zipColumns aligns header, topic and data rows by index over [from, to).
// Missing cells in any row read as "".
func zipColumns(from, to int, header, topics, cells []string) []column {
	if from < 0 {
		from = 0
	}
	if to <= from {
		return nil
	}
	cols := make([]column, 0, to-from)
	for i := from; i < to; i++ {
		cols = append(cols, column{
			index: i,
			date:  cell(header, i),
			topic: cell(topics, i),
			value: cell(cells, i),
		})
	}
	return cols
}
