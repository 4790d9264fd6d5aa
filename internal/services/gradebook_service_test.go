package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apierrors "gradesync/internal/errors"
	"gradesync/internal/shared/testutil"
	"gradesync/pkg/contracts/domain"
)

type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) LoadAll(ctx context.Context) (domain.Dataset, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Dataset), args.Error(1)
}

func student(id int64) Viewer {
	return Viewer{Identity: domain.Identity{ID: id, FirstName: "Student"}}
}

func admin() Viewer {
	return Viewer{Identity: domain.Identity{ID: 100, FirstName: "Admin"}, Admin: true}
}

func loadedService(t *testing.T) *GradebookService {
	t.Helper()
	loader := &mockLoader{}
	loader.On("LoadAll", mock.Anything).Return(testutil.SampleDataset(), nil).Once()
	s := NewGradebookService(loader, WithGradebookLogger(testutil.DiscardLogger()))
	_, err := s.Refresh(context.Background())
	require.NoError(t, err)
	return s
}

func requireAppErrorType(t *testing.T, err error, want apierrors.ErrorType) {
	t.Helper()
	var appErr *apierrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, want, appErr.Type)
}

func TestQueriesBeforeFirstLoad(t *testing.T) {
	s := NewGradebookService(&mockLoader{}, WithGradebookLogger(testutil.DiscardLogger()))

	_, err := s.Grades(student(1), "")
	requireAppErrorType(t, err, apierrors.ErrTypeUnavailable)

	_, err = s.Ranking()
	requireAppErrorType(t, err, apierrors.ErrTypeUnavailable)

	assert.False(t, s.Status().Loaded)
}

func TestRefreshFailureKeepsPreviousData(t *testing.T) {
	loader := &mockLoader{}
	loader.On("LoadAll", mock.Anything).Return(testutil.SampleDataset(), nil).Once()
	loader.On("LoadAll", mock.Anything).Return(domain.Dataset{}, errors.New("sheet retrieval failed")).Once()
	s := NewGradebookService(loader, WithGradebookLogger(testutil.DiscardLogger()))

	_, err := s.Refresh(context.Background())
	require.NoError(t, err)

	status, err := s.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, status.Loaded)
	assert.Equal(t, "sheet retrieval failed", status.LastError)
	assert.Equal(t, 5, status.Grades)

	grades, err := s.Grades(admin(), "")
	require.NoError(t, err)
	assert.Len(t, grades, 5)
	loader.AssertExpectations(t)
}

func TestRefreshLogsFailure(t *testing.T) {
	logger, logs := testutil.NewRecordingLogger(nil)
	loader := &mockLoader{}
	loader.On("LoadAll", mock.Anything).Return(domain.Dataset{}, errors.New("boom"))
	s := NewGradebookService(loader, WithGradebookLogger(logger))

	_, err := s.Refresh(context.Background())
	require.Error(t, err)

	e := testutil.RequireLogged(t, logs, slog.LevelError, "refresh failed")
	assert.Equal(t, false, e.Attrs["serving_previous"])
	assert.Equal(t, "gradebook_service", e.Attrs["component"])
}

func TestGradesVisibility(t *testing.T) {
	s := loadedService(t)

	own, err := s.Grades(student(2), "1")
	require.NoError(t, err)
	require.Len(t, own, 2)
	for _, g := range own {
		assert.Equal(t, "2", g.StudentID)
	}

	stranger, err := s.Grades(student(42), "")
	require.NoError(t, err)
	assert.Empty(t, stranger)

	narrowed, err := s.Grades(admin(), "1")
	require.NoError(t, err)
	assert.Len(t, narrowed, 2)

	absences, err := s.LectureAbsences(student(1), "")
	require.NoError(t, err)
	assert.Empty(t, absences)

	absences, err = s.LectureAbsences(admin(), "")
	require.NoError(t, err)
	assert.Len(t, absences, 1)
}

func TestSubjectGrades(t *testing.T) {
	s := loadedService(t)

	grades, err := s.SubjectGrades(student(1), " Physiology ")
	require.NoError(t, err)
	require.Len(t, grades, 1)
	assert.Equal(t, "Heart", grades[0].Topic)

	_, err = s.SubjectGrades(student(1), "Chemistry")
	requireAppErrorType(t, err, apierrors.ErrTypeNotFound)
}

func TestLookupHomework(t *testing.T) {
	s := loadedService(t)

	hw, err := s.LookupHomework(1, " понедельник ", "ANATOMY")
	require.NoError(t, err)
	assert.Equal(t, "Read chapter 3", hw.Task)

	_, err = s.LookupHomework(2, "Понедельник", "Anatomy")
	requireAppErrorType(t, err, apierrors.ErrTypeNotFound)
}

func TestRankingAndRankOf(t *testing.T) {
	s := loadedService(t)

	ranked, err := s.Ranking()
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, []int{1, 1, 3}, []int{ranked[0].Rank, ranked[1].Rank, ranked[2].Rank})

	me, all, err := s.RankOf(student(2))
	require.NoError(t, err)
	require.NotNil(t, me)
	assert.Equal(t, 3, me.Rank)
	assert.Len(t, all, 3)

	me, _, err = s.RankOf(student(42))
	require.NoError(t, err)
	assert.Nil(t, me)
}

func TestDashboardSearch(t *testing.T) {
	s := loadedService(t)

	all, err := s.Dashboard("")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Ann", all[0].Name)

	found, err := s.Dashboard("bo")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 1, found[0].TotalAbsences)
}

func TestStudentReport(t *testing.T) {
	s := loadedService(t)

	r, err := s.StudentReport(student(2))
	require.NoError(t, err)

	assert.Equal(t, "Bob", r.Name)
	require.Len(t, r.Subjects, 1)
	assert.Len(t, r.Subjects[0].Records, 2)
	require.Len(t, r.TopicsToImprove, 1)
	assert.Equal(t, "Muscles", r.TopicsToImprove[0].Topic)
	require.Len(t, r.Absences, 1)
	assert.Empty(t, r.AbsenceWarnings)
	assert.Len(t, r.LectureAbsences, 1)
	require.NotNil(t, r.Rank)
	assert.Equal(t, 3, r.Rank.Rank)
}

func TestRunStopsWithContext(t *testing.T) {
	loader := &mockLoader{}
	loader.On("LoadAll", mock.Anything).Return(testutil.SampleDataset(), nil)
	s := NewGradebookService(loader, WithGradebookLogger(testutil.DiscardLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Hour)
		close(done)
	}()

	require.Eventually(t, func() bool { return s.Status().Loaded }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
