package exporter

import (
	"strconv"

	"gradesync/pkg/contracts/domain"
)

var (
	gradeHeaders    = []string{"user_id", "user_name", "subject", "topic", "date", "score", "score_kind", "avg_score"}
	absenceHeaders  = []string{"user_id", "user_name", "subject", "topic", "date"}
	homeworkHeaders = []string{"week", "day", "subject", "task"}
	rankingHeaders  = []string{"rank", "user_id", "name", "avg"}
)

// formatFloat keeps exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func formatAverage(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func gradeRow(r domain.GradeRecord) []string {
	return []string{
		r.StudentID,
		r.StudentName,
		r.Subject,
		r.Topic,
		r.Date,
		r.Score.String(),
		r.Score.Kind.String(),
		formatAverage(r.SubjectAverage),
	}
}

func absenceRow(r domain.LectureAbsenceRecord) []string {
	return []string{r.StudentID, r.StudentName, r.Subject, r.Topic, r.Date}
}

func homeworkRow(r domain.HomeworkRecord) []string {
	return []string{strconv.Itoa(r.Week), r.Day, r.Subject, r.Task}
}

func rankingRow(r domain.RankedStudent) []string {
	return []string{strconv.Itoa(r.Rank), r.ID, r.Name, formatFloat(r.Average)}
}
