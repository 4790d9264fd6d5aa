package domain

import "time"

// Dataset is the result of one complete fetch and decode cycle
type Dataset struct {
	Grades          []GradeRecord          `json:"grades"`
	Homeworks       []HomeworkRecord       `json:"homeworks"`
	LectureAbsences []LectureAbsenceRecord `json:"lecture_absences"`
	LoadedAt        time.Time              `json:"loaded_at"`
}

// SubjectGroup holds the records of one subject in decoder order
type SubjectGroup struct {
	Subject string        `json:"subject"`
	Records []GradeRecord `json:"records"`
}

// RankedStudent is one row of the rating table
type RankedStudent struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Average float64 `json:"avg"`
	Rank    int     `json:"rank"`
}

// SubjectAnalytics summarises one student's results in one subject
type SubjectAnalytics struct {
	Average    *float64 `json:"avg_score"`
	GradeCount int      `json:"grade_count"`
	Absences   int      `json:"absences"`
}

// StudentAnalytics is one student's dashboard entry
type StudentAnalytics struct {
	ID             string                      `json:"id"`
	Name           string                      `json:"name"`
	OverallAverage *float64                    `json:"overall_avg_score"`
	TotalAbsences  int                         `json:"total_absences"`
	Subjects       map[string]SubjectAnalytics `json:"subjects"`
	Rank           int                         `json:"rank"`
}
