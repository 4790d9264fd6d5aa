package advice

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gradesync/internal/infrastructure"
)

// Service answers prompts, falling back to fixed texts. A nil advisor means
// advice is switched off and every prompt gets its kind's unavailable text.
type Service struct {
	advisor Advisor
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.GradebookMetrics
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics records advice outcomes
func WithMetrics(m *infrastructure.GradebookMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTracer sets the tracer
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

// NewService creates a service around advisor, which may be nil
func NewService(advisor Advisor, opts ...Option) *Service {
	s := &Service{
		advisor: advisor,
		logger:  slog.Default(),
		tracer:  otel.Tracer(infrastructure.InstrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = infrastructure.WithComponent(s.logger, "advice")
	return s
}

// Enabled reports whether a model is configured
func (s *Service) Enabled() bool { return s.advisor != nil }

// Answer resolves p to display text. It never fails.
func (s *Service) Answer(ctx context.Context, p Prompt) string {
	if s.advisor == nil {
		return unavailable(p.Kind)
	}
	if !p.NeedsModel() {
		return p.Canned
	}

	ctx, span := s.tracer.Start(ctx, "advice.Answer",
		trace.WithAttributes(attribute.String("advice.kind", string(p.Kind))))
	defer span.End()

	start := time.Now()
	text, err := s.advisor.Advise(ctx, p.Text)
	s.metrics.RecordAdvice(ctx, string(p.Kind), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "advice generation failed")
		s.logger.WarnContext(ctx, "advice generation failed",
			slog.String("kind", string(p.Kind)),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()))
		return p.Fallback
	}

	s.logger.DebugContext(ctx, "advice generated",
		slog.String("kind", string(p.Kind)),
		slog.Int("chars", len([]rune(text))),
		slog.Duration("duration", time.Since(start)))
	return text
}

func unavailable(k Kind) string {
	switch k {
	case KindRating:
		return RatingUnavailable
	case KindAbsences:
		return AbsencesUnavailable
	default:
		return GradesUnavailable
	}
}
