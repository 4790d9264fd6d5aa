package services

import (
	"gradesync/internal/dataprocessing"
	"gradesync/pkg/contracts/domain"
)

// StudentReport is everything the student's own pages show
type StudentReport struct {
	StudentID       string                        `json:"user_id"`
	Name            string                        `json:"name"`
	Subjects        []domain.SubjectGroup         `json:"subjects"`
	TopicsToImprove []domain.GradeRecord          `json:"topics_to_improve"`
	Absences        []domain.SubjectGroup         `json:"absences"`
	AbsenceWarnings []domain.SubjectGroup         `json:"absence_warnings"`
	LectureAbsences []domain.LectureAbsenceRecord `json:"lecture_absences"`
	Rank            *domain.RankedStudent         `json:"rank,omitempty"`
}

// StudentReport builds the report for v's own records
func (s *GradebookService) StudentReport(v Viewer) (StudentReport, error) {
	snap, err := s.snapshot()
	if err != nil {
		return StudentReport{}, err
	}

	id := v.StudentID()
	grades := dataprocessing.FilterByStudent(snap.data.Grades, id)
	report := StudentReport{
		StudentID:       id,
		Name:            v.Name(),
		Subjects:        nonNilGroups(dataprocessing.GroupBySubject(grades)),
		TopicsToImprove: nonNilGrades(dataprocessing.TopicsToImprove(grades, dataprocessing.ImprovementThreshold)),
		Absences:        nonNilGroups(dataprocessing.AbsenceSummary(grades)),
		AbsenceWarnings: nonNilGroups(dataprocessing.SubjectsWithManyAbsences(grades, dataprocessing.AbsenceWarningMinimum)),
		LectureAbsences: dataprocessing.FilterAbsencesByStudent(snap.data.LectureAbsences, id),
	}
	if len(grades) > 0 && grades[0].StudentName != "" {
		report.Name = grades[0].StudentName
	}
	if me, ok := dataprocessing.FindRank(snap.ranking, id); ok {
		report.Rank = &me
	}
	return report, nil
}

func nonNilGroups(g []domain.SubjectGroup) []domain.SubjectGroup {
	if g == nil {
		return []domain.SubjectGroup{}
	}
	return g
}

func nonNilGrades(g []domain.GradeRecord) []domain.GradeRecord {
	if g == nil {
		return []domain.GradeRecord{}
	}
	return g
}
