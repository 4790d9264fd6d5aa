package sheets

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"gradesync/internal/dataprocessing"
	"gradesync/internal/infrastructure"
	"gradesync/pkg/contracts/domain"
)

// URLs locates the three published sheets
type URLs struct {
	Grades          string
	Homework        string
	LectureAbsences string
}

// Fetcher retrieves the CSV text of one sheet
type Fetcher interface {
	Fetch(ctx context.Context, source Source, rawURL string) (string, error)
}

// Loader fetches all sheets and decodes them into a Dataset
type Loader struct {
	fetcher Fetcher
	decoder *dataprocessing.Decoder
	urls    URLs
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.GradebookMetrics
	now     func() time.Time
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithDecoder replaces the default decoder
func WithDecoder(d *dataprocessing.Decoder) LoaderOption {
	return func(l *Loader) { l.decoder = d }
}

// WithLoaderLogger sets the logger
func WithLoaderLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// WithLoaderTracer sets the tracer
func WithLoaderTracer(t trace.Tracer) LoaderOption {
	return func(l *Loader) { l.tracer = t }
}

// WithLoaderMetrics records decoded record counts
func WithLoaderMetrics(m *infrastructure.GradebookMetrics) LoaderOption {
	return func(l *Loader) { l.metrics = m }
}

// WithLoaderClock sets the clock stamped on loaded datasets
func WithLoaderClock(now func() time.Time) LoaderOption {
	return func(l *Loader) { l.now = now }
}

// NewLoader creates a loader for urls
func NewLoader(fetcher Fetcher, urls URLs, opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher: fetcher,
		urls:    urls,
		logger:  slog.Default(),
		tracer:  otel.Tracer(infrastructure.InstrumentationName),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = infrastructure.WithComponent(l.logger, "sheets_loader")
	if l.decoder == nil {
		l.decoder = dataprocessing.NewDecoder(dataprocessing.WithLogger(l.logger))
	}
	return l
}

// LoadAll retrieves the three sheets concurrently, then decodes them.
// The first retrieval failure cancels the others and is returned as is.
// Nothing is decoded in that case.
func (l *Loader) LoadAll(ctx context.Context) (domain.Dataset, error) {
	ctx, span := l.tracer.Start(ctx, "sheets.LoadAll")
	defer span.End()

	var gradesCSV, homeworkCSV, absencesCSV string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		gradesCSV, err = l.fetcher.Fetch(gctx, SourceGrades, l.urls.Grades)
		return err
	})
	g.Go(func() error {
		var err error
		homeworkCSV, err = l.fetcher.Fetch(gctx, SourceHomework, l.urls.Homework)
		return err
	})
	g.Go(func() error {
		var err error
		absencesCSV, err = l.fetcher.Fetch(gctx, SourceLectureAbsences, l.urls.LectureAbsences)
		return err
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "retrieval failed")
		return domain.Dataset{}, err
	}

	ds := l.Decode(ctx, gradesCSV, homeworkCSV, absencesCSV)
	span.SetAttributes(
		attribute.Int("records.grades", len(ds.Grades)),
		attribute.Int("records.homework", len(ds.Homeworks)),
		attribute.Int("records.lecture_absences", len(ds.LectureAbsences)),
	)
	return ds, nil
}

// Decode turns already retrieved CSV texts into a Dataset
func (l *Loader) Decode(ctx context.Context, gradesCSV, homeworkCSV, absencesCSV string) domain.Dataset {
	ds := domain.Dataset{
		Grades:          l.decoder.Grades(gradesCSV),
		Homeworks:       l.decoder.Homeworks(homeworkCSV),
		LectureAbsences: l.decoder.LectureAbsences(absencesCSV),
		LoadedAt:        l.now().UTC(),
	}

	l.metrics.RecordDecoded(ctx, string(SourceGrades), len(ds.Grades))
	l.metrics.RecordDecoded(ctx, string(SourceHomework), len(ds.Homeworks))
	l.metrics.RecordDecoded(ctx, string(SourceLectureAbsences), len(ds.LectureAbsences))

	l.logger.InfoContext(ctx, "sheets decoded",
		slog.Int("grades", len(ds.Grades)),
		slog.Int("homework", len(ds.Homeworks)),
		slog.Int("lecture_absences", len(ds.LectureAbsences)))
	return ds
}
