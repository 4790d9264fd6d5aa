package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gradesync/internal/services"
	"gradesync/pkg/contracts/domain"
)

type mockGradebook struct {
	mock.Mock
}

func (m *mockGradebook) Grades(v services.Viewer, studentID string) ([]domain.GradeRecord, error) {
	args := m.Called(v, studentID)
	grades, _ := args.Get(0).([]domain.GradeRecord)
	return grades, args.Error(1)
}

func (m *mockGradebook) LectureAbsences(v services.Viewer, studentID string) ([]domain.LectureAbsenceRecord, error) {
	args := m.Called(v, studentID)
	absences, _ := args.Get(0).([]domain.LectureAbsenceRecord)
	return absences, args.Error(1)
}

func (m *mockGradebook) Homeworks() ([]domain.HomeworkRecord, error) {
	args := m.Called()
	hw, _ := args.Get(0).([]domain.HomeworkRecord)
	return hw, args.Error(1)
}

func (m *mockGradebook) LookupHomework(week int, day, subject string) (domain.HomeworkRecord, error) {
	args := m.Called(week, day, subject)
	return args.Get(0).(domain.HomeworkRecord), args.Error(1)
}

func (m *mockGradebook) Ranking() ([]domain.RankedStudent, error) {
	args := m.Called()
	ranked, _ := args.Get(0).([]domain.RankedStudent)
	return ranked, args.Error(1)
}

func (m *mockGradebook) Dashboard(search string) ([]domain.StudentAnalytics, error) {
	args := m.Called(search)
	students, _ := args.Get(0).([]domain.StudentAnalytics)
	return students, args.Error(1)
}

func (m *mockGradebook) StudentReport(v services.Viewer) (services.StudentReport, error) {
	args := m.Called(v)
	return args.Get(0).(services.StudentReport), args.Error(1)
}

func (m *mockGradebook) Refresh(ctx context.Context) (services.RefreshStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(services.RefreshStatus), args.Error(1)
}

func (m *mockGradebook) Status() services.RefreshStatus {
	args := m.Called()
	return args.Get(0).(services.RefreshStatus)
}

type mockAdvice struct {
	mock.Mock
}

func (m *mockAdvice) GradeAdvice(ctx context.Context, v services.Viewer, subject string) (string, error) {
	args := m.Called(ctx, v, subject)
	return args.String(0), args.Error(1)
}

func (m *mockAdvice) RatingAdvice(ctx context.Context, v services.Viewer) (string, error) {
	args := m.Called(ctx, v)
	return args.String(0), args.Error(1)
}

func (m *mockAdvice) AbsenceAdvice(ctx context.Context, v services.Viewer) (string, error) {
	args := m.Called(ctx, v)
	return args.String(0), args.Error(1)
}
