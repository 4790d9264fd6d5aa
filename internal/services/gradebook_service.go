package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gradesync/internal/dataprocessing"
	"gradesync/internal/infrastructure"
	"gradesync/pkg/contracts/domain"
)

// DatasetLoader produces a complete Dataset or an error
type DatasetLoader interface {
	LoadAll(ctx context.Context) (domain.Dataset, error)
}

// Viewer is the caller a query is answered for
type Viewer struct {
	Identity domain.Identity
	Admin    bool
}

// StudentID is the sheet identifier of the viewer
func (v Viewer) StudentID() string { return v.Identity.StudentID() }

// Name is the viewer's display name
func (v Viewer) Name() string { return v.Identity.DisplayName() }

// RefreshStatus describes the dataset currently served
type RefreshStatus struct {
	Loaded          bool      `json:"loaded"`
	LoadedAt        time.Time `json:"loaded_at,omitempty"`
	LastAttempt     time.Time `json:"last_attempt,omitempty"`
	LastError       string    `json:"last_error,omitempty"`
	Grades          int       `json:"grades"`
	Homeworks       int       `json:"homeworks"`
	LectureAbsences int       `json:"lecture_absences"`
}

// snapshot is an installed dataset together with its derived indexes
type snapshot struct {
	data     domain.Dataset
	homework dataprocessing.HomeworkIndex
	ranking  []domain.RankedStudent
}

// GradebookService keeps the last successfully loaded Dataset
type GradebookService struct {
	loader  DatasetLoader
	logger  *slog.Logger
	metrics *infrastructure.GradebookMetrics
	now     func() time.Time

	mu          sync.RWMutex
	current     *snapshot
	lastAttempt time.Time
	lastErr     error
}

// GradebookOption configures a GradebookService
type GradebookOption func(*GradebookService)

// WithGradebookLogger sets the logger
func WithGradebookLogger(logger *slog.Logger) GradebookOption {
	return func(s *GradebookService) { s.logger = logger }
}

// WithGradebookMetrics records refresh outcomes
func WithGradebookMetrics(m *infrastructure.GradebookMetrics) GradebookOption {
	return func(s *GradebookService) { s.metrics = m }
}

// WithGradebookClock sets the clock used for refresh timestamps
func WithGradebookClock(now func() time.Time) GradebookOption {
	return func(s *GradebookService) { s.now = now }
}

// NewGradebookService creates an empty service backed by loader
func NewGradebookService(loader DatasetLoader, opts ...GradebookOption) *GradebookService {
	s := &GradebookService{
		loader: loader,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = infrastructure.WithComponent(s.logger, "gradebook_service")
	return s
}

// Refresh runs one load cycle. On success the new dataset replaces the
// current one; on failure the current one stays and the error is returned.
func (s *GradebookService) Refresh(ctx context.Context) (RefreshStatus, error) {
	started := s.now()
	ds, err := s.loader.LoadAll(ctx)
	s.metrics.RecordRefresh(ctx, err)

	s.mu.Lock()
	s.lastAttempt = started
	s.lastErr = err
	if err == nil {
		s.current = &snapshot{
			data:     ds,
			homework: dataprocessing.NewHomeworkIndex(ds.Homeworks),
			ranking:  dataprocessing.Ranking(ds.Grades),
		}
	}
	status := s.statusLocked()
	s.mu.Unlock()

	if err != nil {
		s.logger.ErrorContext(ctx, "gradebook refresh failed",
			slog.Bool("serving_previous", status.Loaded),
			slog.String("error", err.Error()))
		return status, err
	}

	s.logger.InfoContext(ctx, "gradebook refreshed",
		slog.Int("grades", status.Grades),
		slog.Int("homeworks", status.Homeworks),
		slog.Int("lecture_absences", status.LectureAbsences),
		slog.Duration("duration", s.now().Sub(started)))
	return status, nil
}

// Run refreshes immediately and then every interval until ctx is done.
// Refresh failures are logged and do not stop the loop. A non-positive
// interval performs the initial refresh only.
func (s *GradebookService) Run(ctx context.Context, interval time.Duration) {
	s.Refresh(ctx)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Status reports what is being served
func (s *GradebookService) Status() RefreshStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusLocked()
}

func (s *GradebookService) statusLocked() RefreshStatus {
	st := RefreshStatus{LastAttempt: s.lastAttempt}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	if s.current != nil {
		st.Loaded = true
		st.LoadedAt = s.current.data.LoadedAt
		st.Grades = len(s.current.data.Grades)
		st.Homeworks = len(s.current.data.Homeworks)
		st.LectureAbsences = len(s.current.data.LectureAbsences)
	}
	return st
}

func (s *GradebookService) snapshot() (*snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, errNotLoaded()
	}
	return s.current, nil
}

// Dataset returns the full current dataset
func (s *GradebookService) Dataset() (domain.Dataset, error) {
	snap, err := s.snapshot()
	if err != nil {
		return domain.Dataset{}, err
	}
	return snap.data, nil
}

// Grades returns the grade records visible to v. The admin may narrow the
// result to one student; for anyone else studentID is ignored.
func (s *GradebookService) Grades(v Viewer, studentID string) ([]domain.GradeRecord, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return visibleGrades(snap.data.Grades, v, studentID), nil
}

// SubjectGrades returns v's records of one subject
func (s *GradebookService) SubjectGrades(v Viewer, subject string) ([]domain.GradeRecord, error) {
	grades, err := s.Grades(v, v.StudentID())
	if err != nil {
		return nil, err
	}
	subject = strings.TrimSpace(subject)
	out := dataprocessing.FilterBySubject(grades, subject)
	if len(out) == 0 {
		return nil, errSubjectNotFound(subject)
	}
	return out, nil
}

// LectureAbsences returns the missed lectures visible to v
func (s *GradebookService) LectureAbsences(v Viewer, studentID string) ([]domain.LectureAbsenceRecord, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	switch {
	case !v.Admin:
		return dataprocessing.FilterAbsencesByStudent(snap.data.LectureAbsences, v.StudentID()), nil
	case studentID != "":
		return dataprocessing.FilterAbsencesByStudent(snap.data.LectureAbsences, studentID), nil
	default:
		return snap.data.LectureAbsences, nil
	}
}

// Homeworks returns every homework record
func (s *GradebookService) Homeworks() ([]domain.HomeworkRecord, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.data.Homeworks, nil
}

// LookupHomework finds the task for one schedule slot
func (s *GradebookService) LookupHomework(week int, day, subject string) (domain.HomeworkRecord, error) {
	snap, err := s.snapshot()
	if err != nil {
		return domain.HomeworkRecord{}, err
	}
	task, ok := snap.homework.Lookup(week, day, subject)
	if !ok {
		return domain.HomeworkRecord{}, errHomeworkNotFound(week, day, subject)
	}
	return domain.HomeworkRecord{Week: week, Day: strings.TrimSpace(day), Subject: strings.TrimSpace(subject), Task: task}, nil
}

// Ranking returns the rating table
func (s *GradebookService) Ranking() ([]domain.RankedStudent, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.ranking, nil
}

// RankOf returns v's ranking entry, nil when v has none, and the full table
func (s *GradebookService) RankOf(v Viewer) (*domain.RankedStudent, []domain.RankedStudent, error) {
	ranked, err := s.Ranking()
	if err != nil {
		return nil, nil, err
	}
	me, ok := dataprocessing.FindRank(ranked, v.StudentID())
	if !ok {
		return nil, ranked, nil
	}
	return &me, ranked, nil
}

// Dashboard returns per-student analytics, optionally filtered by name
func (s *GradebookService) Dashboard(search string) ([]domain.StudentAnalytics, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return dataprocessing.SearchStudents(dataprocessing.StudentAnalytics(snap.data.Grades), search), nil
}

func visibleGrades(all []domain.GradeRecord, v Viewer, studentID string) []domain.GradeRecord {
	switch {
	case !v.Admin:
		return dataprocessing.FilterByStudent(all, v.StudentID())
	case studentID != "":
		return dataprocessing.FilterByStudent(all, studentID)
	default:
		return all
	}
}
