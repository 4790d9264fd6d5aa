package sheets

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradesync/internal/dataprocessing"
	apierrors "gradesync/internal/errors"
	"gradesync/pkg/contracts/domain"
)

// stubFetcher serves canned bodies per URL and records what was asked for
type stubFetcher struct {
	mu      sync.Mutex
	bodies  map[string]string
	fail    map[string]error
	sources []Source
}

func (s *stubFetcher) Fetch(ctx context.Context, source Source, rawURL string) (string, error) {
	s.mu.Lock()
	s.sources = append(s.sources, source)
	s.mu.Unlock()

	if err, ok := s.fail[rawURL]; ok {
		return "", err
	}
	return s.bodies[rawURL], nil
}

var testURLs = URLs{
	Grades:          "https://sheets.test/grades",
	Homework:        "https://sheets.test/homework",
	LectureAbsences: "https://sheets.test/absences",
}

const gradesCSV = "Math,,,1.9.2025\n,,,Limits\n7,Bob,64,60"
const homeworkCSV = "week,day,subject,task\n1,Понедельник,Math,Read chapter 2"
const absencesCSV = "Anatomy,,1.9.2025\n,,Bones\n7,Bob,н"

func testLoader(f Fetcher) *Loader {
	decoder := dataprocessing.NewDecoder(
		dataprocessing.WithLogger(quietLogger()),
		dataprocessing.WithClock(func() time.Time { return fixedNow }),
	)
	return NewLoader(f, testURLs,
		WithDecoder(decoder),
		WithLoaderLogger(quietLogger()),
		WithLoaderClock(func() time.Time { return fixedNow }),
	)
}

func TestLoadAllDecodesEverySheet(t *testing.T) {
	f := &stubFetcher{bodies: map[string]string{
		testURLs.Grades:          gradesCSV,
		testURLs.Homework:        homeworkCSV,
		testURLs.LectureAbsences: absencesCSV,
	}}

	ds, err := testLoader(f).LoadAll(context.Background())

	require.NoError(t, err)
	assert.ElementsMatch(t, []Source{SourceGrades, SourceHomework, SourceLectureAbsences}, f.sources)
	assert.Equal(t, fixedNow, ds.LoadedAt)

	require.Len(t, ds.Grades, 1)
	assert.Equal(t, "Bob", ds.Grades[0].StudentName)
	assert.Equal(t, domain.Numeric(60), ds.Grades[0].Score)

	require.Len(t, ds.Homeworks, 1)
	assert.Equal(t, domain.HomeworkRecord{Week: 1, Day: "Понедельник", Subject: "Math", Task: "Read chapter 2"}, ds.Homeworks[0])

	require.Len(t, ds.LectureAbsences, 1)
	assert.Equal(t, "Bones", ds.LectureAbsences[0].Topic)
	assert.Equal(t, "2025-09-01", ds.LectureAbsences[0].Date)
}

func TestLoadAllFailureReturnsNoData(t *testing.T) {
	cause := apierrors.NewNetworkError("homework sheet retrieval failed", ErrRetrievalFailed)
	f := &stubFetcher{
		bodies: map[string]string{
			testURLs.Grades:          gradesCSV,
			testURLs.LectureAbsences: absencesCSV,
		},
		fail: map[string]error{testURLs.Homework: cause},
	}

	ds, err := testLoader(f).LoadAll(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRetrievalFailed))
	assert.Empty(t, ds.Grades)
	assert.Empty(t, ds.Homeworks)
	assert.Empty(t, ds.LectureAbsences)
	assert.True(t, ds.LoadedAt.IsZero())
}

func TestLoadAllEmptySheets(t *testing.T) {
	f := &stubFetcher{bodies: map[string]string{}}

	ds, err := testLoader(f).LoadAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, ds.Grades)
	assert.Empty(t, ds.Grades)
	assert.Empty(t, ds.Homeworks)
	assert.Empty(t, ds.LectureAbsences)
}
