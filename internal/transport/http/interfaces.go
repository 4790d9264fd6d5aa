package http

import (
	"context"

	"gradesync/internal/services"
	"gradesync/pkg/contracts/domain"
)

// GradebookService is the part of services.GradebookService the handlers use
type GradebookService interface {
	Grades(v services.Viewer, studentID string) ([]domain.GradeRecord, error)
	LectureAbsences(v services.Viewer, studentID string) ([]domain.LectureAbsenceRecord, error)
	Homeworks() ([]domain.HomeworkRecord, error)
	LookupHomework(week int, day, subject string) (domain.HomeworkRecord, error)
	Ranking() ([]domain.RankedStudent, error)
	Dashboard(search string) ([]domain.StudentAnalytics, error)
	StudentReport(v services.Viewer) (services.StudentReport, error)
	Refresh(ctx context.Context) (services.RefreshStatus, error)
	Status() services.RefreshStatus
}

// AdviceService is the part of services.AdviceService the handlers use
type AdviceService interface {
	GradeAdvice(ctx context.Context, v services.Viewer, subject string) (string, error)
	RatingAdvice(ctx context.Context, v services.Viewer) (string, error)
	AbsenceAdvice(ctx context.Context, v services.Viewer) (string, error)
}
