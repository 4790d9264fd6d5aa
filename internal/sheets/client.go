package sheets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apierrors "gradesync/internal/errors"
	"gradesync/internal/infrastructure"
)

// ErrRetrievalFailed is wrapped by every fetch failure
var ErrRetrievalFailed = errors.New("sheet retrieval failed")

// Source names one of the published sheets
type Source string

const (
	SourceGrades          Source = "grades"
	SourceHomework        Source = "homework"
	SourceLectureAbsences Source = "lecture_absences"
)

const (
	defaultCacheBustParam = "_"
	maxBodyBytes          = 16 << 20
	userAgent             = "gradesync-sheets/1.0"
)

// Doer is the part of *http.Client the fetcher needs
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client downloads CSV text from published sheet URLs
type Client struct {
	http           Doer
	cacheBustParam string
	now            func() time.Time
	logger         *slog.Logger
	tracer         trace.Tracer
	metrics        *infrastructure.GradebookMetrics
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the transport
func WithHTTPClient(d Doer) ClientOption {
	return func(c *Client) { c.http = d }
}

// WithCacheBustParam sets the query parameter that makes each request unique
func WithCacheBustParam(name string) ClientOption {
	return func(c *Client) {
		if name != "" {
			c.cacheBustParam = name
		}
	}
}

// WithClientClock sets the clock used for cache-bust values
func WithClientClock(now func() time.Time) ClientOption {
	return func(c *Client) { c.now = now }
}

// WithClientLogger sets the logger
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithClientTracer sets the tracer used for fetch spans
func WithClientTracer(t trace.Tracer) ClientOption {
	return func(c *Client) { c.tracer = t }
}

// WithClientMetrics records fetch counters and latency
func WithClientMetrics(m *infrastructure.GradebookMetrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a client. Without WithHTTPClient it uses an http.Client
// with the given timeout; zero means no client-side timeout.
func NewClient(timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		http:           &http.Client{Timeout: timeout},
		cacheBustParam: defaultCacheBustParam,
		now:            time.Now,
		logger:         slog.Default(),
		tracer:         otel.Tracer(infrastructure.InstrumentationName),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = infrastructure.WithComponent(c.logger, "sheets_client")
	return c
}

// Fetch downloads one sheet. Any transport error or non-2xx status is
// reported as a NETWORK AppError wrapping ErrRetrievalFailed.
func (c *Client) Fetch(ctx context.Context, source Source, rawURL string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "sheets.Fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("sheet.source", string(source))))
	defer span.End()

	start := time.Now()
	body, status, err := c.get(ctx, rawURL)
	duration := time.Since(start)
	c.metrics.RecordSheetFetch(ctx, string(source), duration, err)

	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}

	if err != nil {
		appErr := apierrors.NewNetworkError(
			fmt.Sprintf("%s sheet retrieval failed", source),
			fmt.Errorf("%w: %w", ErrRetrievalFailed, err),
		).WithContext("source", string(source))
		if status != 0 {
			appErr.WithContext("status", status)
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, appErr.Message)
		c.logger.WarnContext(ctx, "sheet retrieval failed",
			slog.String("source", string(source)),
			slog.Int("status", status),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", appErr
	}

	c.logger.DebugContext(ctx, "sheet retrieved",
		slog.String("source", string(source)),
		slog.Int("bytes", len(body)),
		slog.Duration("duration", duration))
	return body, nil
}

// get performs the request and returns the body and HTTP status. status is
// zero when no response was received.
func (c *Client) get(ctx context.Context, rawURL string) (string, int, error) {
	target, err := c.cacheBusted(rawURL)
	if err != nil {
		return "", 0, fmt.Errorf("invalid sheet url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return "", resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return string(data), resp.StatusCode, nil
}

// cacheBusted appends the cache-bust parameter set to the current time in
// milliseconds, keeping the other query parameters.
func (c *Client) cacheBusted(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%q is not an absolute url", rawURL)
	}
	q := u.Query()
	q.Set(c.cacheBustParam, strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
