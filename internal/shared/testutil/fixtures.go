package testutil

import (
	"gradesync/pkg/contracts/domain"
)

// Sheet texts shaped like the published gradebook: one block per subject,
// a date header row, a topic row and one row per student.
const (
	GradeSheetCSV = "Anatomy,,,1.9.2025,8.9.2025\n" +
		",,,Bones,Muscles\n" +
		"1,Ann,\"88,5\",90,87\n" +
		"2,Bob,54,н,50\n"

	HomeworkSheetCSV = "Неделя,День,Предмет,Задание\n" +
		"1,Понедельник,Anatomy,Read chapter 3\n" +
		"2,Вторник,Physiology,Essay on the heart\n"

	LectureAbsenceSheetCSV = "Anatomy,,1.9.2025,8.9.2025\n" +
		",,Intro,\n" +
		"2,Bob,н,н\n"
)

// Score builds a numeric score
func Score(v float64) domain.Score { return domain.Numeric(v) }

// Avg returns a pointer to v for SubjectAverage fields
func Avg(v float64) *float64 { return &v }

// Grade builds a grade record
func Grade(studentID, name, subject, topic string, score domain.Score, avg *float64) domain.GradeRecord {
	return domain.GradeRecord{
		StudentID:      studentID,
		StudentName:    name,
		Subject:        subject,
		Topic:          topic,
		Date:           "2025-09-01",
		Score:          score,
		SubjectAverage: avg,
	}
}

// SampleDataset is a small three-student dataset with one tie at the top
func SampleDataset() domain.Dataset {
	return domain.Dataset{
		Grades: []domain.GradeRecord{
			Grade("1", "Ann", "Anatomy", "Bones", Score(90), Avg(88.5)),
			Grade("1", "Ann", "Physiology", "Heart", Score(40), Avg(88.5)),
			Grade("2", "Bob", "Anatomy", "Bones", domain.Absent(), Avg(54)),
			Grade("2", "Bob", "Anatomy", "Muscles", Score(50), Avg(54)),
			Grade("3", "Cid", "Anatomy", "Bones", Score(88), Avg(88.5)),
		},
		Homeworks: []domain.HomeworkRecord{
			{Week: 1, Day: "Понедельник", Subject: "Anatomy", Task: "Read chapter 3"},
		},
		LectureAbsences: []domain.LectureAbsenceRecord{
			{StudentID: "2", StudentName: "Bob", Subject: "Anatomy", Topic: "Intro", Date: "2025-09-01"},
		},
	}
}
