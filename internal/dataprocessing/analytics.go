package dataprocessing

import (
	"fmt"
	"sort"
	"strings"

	"gradesync/pkg/contracts/domain"
)

// Thresholds used by the grade views
const (
	ImprovementThreshold  = 56
	AbsenceWarningMinimum = 3
)

// GroupBySubject groups records by subject. Groups appear in order of first
// occurrence and records keep decoder order inside each group.
func GroupBySubject(records []domain.GradeRecord) []domain.SubjectGroup {
	index := make(map[string]int)
	var groups []domain.SubjectGroup
	for _, r := range records {
		i, ok := index[r.Subject]
		if !ok {
			i = len(groups)
			index[r.Subject] = i
			groups = append(groups, domain.SubjectGroup{Subject: r.Subject})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// FilterByStudent keeps the records of one student
func FilterByStudent(records []domain.GradeRecord, studentID string) []domain.GradeRecord {
	out := []domain.GradeRecord{}
	for _, r := range records {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out
}

// FilterBySubject keeps the records of one subject
func FilterBySubject(records []domain.GradeRecord, subject string) []domain.GradeRecord {
	out := []domain.GradeRecord{}
	for _, r := range records {
		if r.Subject == subject {
			out = append(out, r)
		}
	}
	return out
}

// FilterAbsencesByStudent keeps the lecture absences of one student
func FilterAbsencesByStudent(records []domain.LectureAbsenceRecord, studentID string) []domain.LectureAbsenceRecord {
	out := []domain.LectureAbsenceRecord{}
	for _, r := range records {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out
}

// AbsenceSummary groups the Absent grade records by subject
func AbsenceSummary(records []domain.GradeRecord) []domain.SubjectGroup {
	var absent []domain.GradeRecord
	for _, r := range records {
		if r.Score.Kind == domain.ScoreAbsent {
			absent = append(absent, r)
		}
	}
	return GroupBySubject(absent)
}

// SubjectsWithManyAbsences returns the absence groups holding at least minimum records
func SubjectsWithManyAbsences(records []domain.GradeRecord, minimum int) []domain.SubjectGroup {
	var out []domain.SubjectGroup
	for _, g := range AbsenceSummary(records) {
		if len(g.Records) >= minimum {
			out = append(out, g)
		}
	}
	return out
}

// TopicsToImprove returns numeric records scoring at or below threshold
func TopicsToImprove(records []domain.GradeRecord, threshold float64) []domain.GradeRecord {
	var out []domain.GradeRecord
	for _, r := range records {
		if v, ok := r.Score.Number(); ok && v <= threshold {
			out = append(out, r)
		}
	}
	return out
}

// Ranking orders students by the first sheet average seen for them.
// Students without an average are left out. Equal averages share a rank and
// the next distinct average ranks by position, so 1, 1, 3.
func Ranking(records []domain.GradeRecord) []domain.RankedStudent {
	type entry struct {
		name string
		avg  *float64
	}
	var order []string
	seen := make(map[string]*entry)
	for _, r := range records {
		if r.StudentID == "" {
			continue
		}
		e, ok := seen[r.StudentID]
		if !ok {
			e = &entry{name: displayName(r)}
			seen[r.StudentID] = e
			order = append(order, r.StudentID)
		}
		if e.avg == nil && r.SubjectAverage != nil {
			e.avg = copyFloat(r.SubjectAverage)
		}
	}

	ranked := []domain.RankedStudent{}
	for _, id := range order {
		e := seen[id]
		if e.avg == nil {
			continue
		}
		ranked = append(ranked, domain.RankedStudent{ID: id, Name: e.name, Average: *e.avg})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Average > ranked[j].Average })

	assignRanks(len(ranked), func(i int) (float64, bool) { return ranked[i].Average, true },
		func(i, rank int) { ranked[i].Rank = rank })
	return ranked
}

// FindRank returns the ranking entry for a student
func FindRank(ranked []domain.RankedStudent, studentID string) (domain.RankedStudent, bool) {
	for _, r := range ranked {
		if r.ID == studentID {
			return r, true
		}
	}
	return domain.RankedStudent{}, false
}

// StudentAnalytics computes the per-student dashboard entries, ranked by
// overall average and returned sorted by name.
func StudentAnalytics(records []domain.GradeRecord) []domain.StudentAnalytics {
	var order []string
	byStudent := make(map[string][]domain.GradeRecord)
	for _, r := range records {
		if _, ok := byStudent[r.StudentID]; !ok {
			order = append(order, r.StudentID)
		}
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
	}

	out := make([]domain.StudentAnalytics, 0, len(order))
	for _, id := range order {
		grades := byStudent[id]
		sa := domain.StudentAnalytics{
			ID:       id,
			Name:     displayName(grades[0]),
			Subjects: make(map[string]domain.SubjectAnalytics),
		}
		for _, g := range grades {
			if sa.OverallAverage == nil && g.SubjectAverage != nil {
				sa.OverallAverage = copyFloat(g.SubjectAverage)
			}
			if g.Score.Kind == domain.ScoreAbsent {
				sa.TotalAbsences++
			}
		}
		for _, group := range GroupBySubject(grades) {
			sa.Subjects[group.Subject] = subjectAnalytics(group.Records)
		}
		out = append(out, sa)
	}

	sort.SliceStable(out, func(i, j int) bool { return avgOrZero(out[i].OverallAverage) > avgOrZero(out[j].OverallAverage) })
	assignRanks(len(out), func(i int) (float64, bool) {
		if out[i].OverallAverage == nil {
			return 0, false
		}
		return *out[i].OverallAverage, true
	}, func(i, rank int) { out[i].Rank = rank })

	sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out
}

// SearchStudents keeps entries whose name contains term, case-insensitively
func SearchStudents(students []domain.StudentAnalytics, term string) []domain.StudentAnalytics {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return students
	}
	var out []domain.StudentAnalytics
	for _, s := range students {
		if strings.Contains(strings.ToLower(s.Name), term) {
			out = append(out, s)
		}
	}
	return out
}

func subjectAnalytics(records []domain.GradeRecord) domain.SubjectAnalytics {
	var (
		sa    domain.SubjectAnalytics
		sum   float64
		count int
	)
	for _, r := range records {
		if v, ok := r.Score.Number(); ok {
			sum += v
			count++
		}
		if r.Score.IsGraded() {
			sa.GradeCount++
		}
		if r.Score.Kind == domain.ScoreAbsent {
			sa.Absences++
		}
	}
	if count > 0 {
		avg := sum / float64(count)
		sa.Average = &avg
	}
	return sa
}

// assignRanks gives equal values the same rank. Entries without a value
// break the tie chain like a distinct value would.
func assignRanks(n int, value func(int) (float64, bool), set func(int, int)) {
	rank := 0
	var last *float64
	for i := 0; i < n; i++ {
		v, ok := value(i)
		if !ok || last == nil || v != *last {
			rank = i + 1
		}
		if ok {
			last = &v
		} else {
			last = nil
		}
		set(i, rank)
	}
}

func avgOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func displayName(r domain.GradeRecord) string {
	if r.StudentName != "" {
		return r.StudentName
	}
	return fmt.Sprintf("User %s", r.StudentID)
}

// HomeworkKey builds the join key shared by homework rows and schedule
// entries. Day and subject are trimmed and lower-cased.
func HomeworkKey(week int, day, subject string) string {
	return fmt.Sprintf("%d-%s-%s", week, normalizeKeyPart(day), normalizeKeyPart(subject))
}

func normalizeKeyPart(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// HomeworkIndex maps HomeworkKey to task. Later rows replace earlier ones.
type HomeworkIndex map[string]string

// NewHomeworkIndex indexes homework records by their join key
func NewHomeworkIndex(records []domain.HomeworkRecord) HomeworkIndex {
	idx := make(HomeworkIndex, len(records))
	for _, hw := range records {
		idx[HomeworkKey(hw.Week, hw.Day, hw.Subject)] = hw.Task
	}
	return idx
}

// Lookup returns the task for a schedule slot
func (idx HomeworkIndex) Lookup(week int, day, subject string) (string, bool) {
	task, ok := idx[HomeworkKey(week, day, subject)]
	return task, ok
}
