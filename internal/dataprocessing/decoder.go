package dataprocessing

import (
	"log/slog"
	"strings"
	"time"

	"gradesync/pkg/contracts/domain"
)

// Decoder turns sheet CSV text into domain records. It holds no state
// between calls and is safe for concurrent use.
type Decoder struct {
	layout BlockLayout
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Decoder
type Option func(*Decoder)

// WithLayout overrides the block geometry
func WithLayout(layout BlockLayout) Option {
	return func(d *Decoder) { d.layout = layout }
}

// WithLogger sets the logger used for structural warnings
func WithLogger(logger *slog.Logger) Option {
	return func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithClock sets the clock used to fill in missing years
func WithClock(now func() time.Time) Option {
	return func(d *Decoder) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDecoder creates a decoder using DefaultLayout unless overridden
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		layout: DefaultLayout(),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With(slog.String("component", "sheet_decoder"))
	return d
}

// DecodeGrades decodes a grade sheet with the default decoder
func DecodeGrades(csvText string) []domain.GradeRecord {
	return NewDecoder().Grades(csvText)
}

// DecodeLectureAbsences decodes a lecture-absence sheet with the default decoder
func DecodeLectureAbsences(csvText string) []domain.LectureAbsenceRecord {
	return NewDecoder().LectureAbsences(csvText)
}

// DecodeHomeworks decodes a homework sheet with the default decoder
func DecodeHomeworks(csvText string) []domain.HomeworkRecord {
	return NewDecoder().Homeworks(csvText)
}

// Grades decodes the grade pivot sheet.
//
// Within a block, records for one student are emitted from the rightmost
// header column down to FirstGradeColumn. Consumers relying on "most recent
// first" depend on this order.
func (d *Decoder) Grades(csvText string) []domain.GradeRecord {
	rows := splitRows(csvText)
	if len(rows) < minRowsForData {
		d.logger.Warn("grade sheet has too few rows", slog.Int("rows", len(rows)))
		return []domain.GradeRecord{}
	}

	year := d.now().Year()
	records := []domain.GradeRecord{}

	for _, b := range d.layout.blocks(rows) {
		before := len(records)
		for _, line := range b.rows {
			if strings.TrimSpace(line) == "" {
				continue
			}

			cells := TokenizeRow(line)
			studentID := cell(cells, studentIDColumn)
			if studentID == "" {
				continue
			}
			name := cell(cells, studentNameColumn)
			avg := parseAverage(cell(cells, subjectAvgColumn))

			cols := zipColumns(d.layout.FirstGradeColumn, len(b.header), b.header, b.topics, cells)
			for i := len(cols) - 1; i >= 0; i-- {
				col := cols[i]
				if col.date == "" || col.topic == "" {
					continue
				}
				records = append(records, domain.GradeRecord{
					StudentID:      studentID,
					StudentName:    name,
					Subject:        b.subject,
					Topic:          col.topic,
					Date:           normalizeDate(col.date, year),
					Score:          ClassifyScore(col.value),
					SubjectAverage: copyFloat(avg),
				})
			}
		}
		d.logger.Debug("decoded grade block",
			slog.String("subject", b.subject),
			slog.Int("offset", b.offset),
			slog.Int("records", len(records)-before))
	}

	return records
}

// LectureAbsences decodes the lecture-absence sheet. Only cells equal to
// "н" (any case) produce a record, and only where the column has a date.
func (d *Decoder) LectureAbsences(csvText string) []domain.LectureAbsenceRecord {
	rows := splitRows(csvText)
	if len(rows) < minRowsForData {
		d.logger.Warn("lecture absence sheet has too few rows", slog.Int("rows", len(rows)))
		return []domain.LectureAbsenceRecord{}
	}

	year := d.now().Year()
	records := []domain.LectureAbsenceRecord{}

	for _, b := range d.layout.blocks(rows) {
		for _, line := range b.rows {
			if strings.TrimSpace(line) == "" {
				continue
			}

			cells := TokenizeRow(line)
			studentID := cell(cells, studentIDColumn)
			if studentID == "" {
				continue
			}
			name := cell(cells, studentNameColumn)

			for _, col := range zipColumns(d.layout.FirstAbsenceColumn, len(cells), b.header, b.topics, cells) {
				if strings.ToLower(col.value) != domain.TokenAbsent || col.date == "" {
					continue
				}
				topic := col.topic
				if topic == "" {
					topic = domain.DefaultLectureTopic
				}
				records = append(records, domain.LectureAbsenceRecord{
					StudentID:   studentID,
					StudentName: name,
					Subject:     b.subject,
					Topic:       topic,
					Date:        normalizeDate(col.date, year),
				})
			}
		}
	}

	return records
}

// Homeworks decodes the homework sheet: a header line followed by
// week, day, subject, task rows. Rows without a numeric week or with a blank
// day, subject or task are dropped.
func (d *Decoder) Homeworks(csvText string) []domain.HomeworkRecord {
	rows := splitRows(csvText)
	if len(rows) < 2 {
		return []domain.HomeworkRecord{}
	}

	records := []domain.HomeworkRecord{}
	for n, line := range rows[1:] {
		cells := TokenizeRow(line)
		week, ok := parseLeadingInt(cell(cells, 0))
		day, subject, task := cell(cells, 1), cell(cells, 2), cell(cells, 3)
		if !ok || day == "" || subject == "" || task == "" {
			d.logger.Debug("skipping homework row", slog.Int("line", n+2))
			continue
		}
		records = append(records, domain.HomeworkRecord{
			Week:    week,
			Day:     day,
			Subject: subject,
			Task:    task,
		})
	}
	return records
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
