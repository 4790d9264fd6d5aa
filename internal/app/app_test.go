package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradesync/internal/advice"
	"gradesync/internal/config"
	apierrors "gradesync/internal/errors"
	"gradesync/internal/shared/testutil"
	"gradesync/pkg/contracts/domain"
)

const adminID = 100

type stubLoader struct {
	ds  domain.Dataset
	err error
}

func (s *stubLoader) LoadAll(ctx context.Context) (domain.Dataset, error) {
	if s.err != nil {
		return domain.Dataset{}, s.err
	}
	return s.ds, nil
}

type stubAdvisor struct{ reply string }

func (s stubAdvisor) Advise(ctx context.Context, prompt string) (string, error) {
	return s.reply, nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Telemetry.TraceExporter = "none"
	cfg.Telemetry.MetricExporter = "none"
	cfg.Security.RateLimit.Enabled = false
	cfg.Access = config.AccessConfig{AllowedUserIDs: []int64{1, 2, 3}, AdminID: adminID}
	cfg.Server.ShutdownTimeout = time.Second
	return cfg
}

func newTestApp(t *testing.T, opts ...Option) *Application {
	t.Helper()
	opts = append([]Option{
		WithLogger(testutil.DiscardLogger()),
		WithDatasetLoader(&stubLoader{ds: testutil.SampleDataset()}),
	}, opts...)
	a, err := NewApplication(context.Background(), testConfig(), opts...)
	require.NoError(t, err)
	return a
}

func call(t *testing.T, a *Application, method, target string, userID int64) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if userID != 0 {
		req.Header.Set(config.HeaderUserID, strconv.FormatInt(userID, 10))
		req.Header.Set(config.HeaderUserName, "Test User")
	}
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	var body map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec, body
}

func TestNewApplication(t *testing.T) {
	a := newTestApp(t)

	assert.NotNil(t, a.Router)
	assert.NotNil(t, a.Gradebook)
	assert.NotNil(t, a.Advice)
	assert.NotNil(t, a.Health)
	assert.Nil(t, a.OTelProviders.PrometheusHTTP)
	assert.Equal(t, ":8080", a.Server.Addr)
}

func TestNewApplicationRejectsUnknownExporter(t *testing.T) {
	cfg := testConfig()
	cfg.Telemetry.TraceExporter = "jaeger"

	_, err := NewApplication(context.Background(), cfg, WithLogger(testutil.DiscardLogger()))
	require.Error(t, err)

	var appErr *apierrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apierrors.ErrTypeConfig, appErr.Type)
}

func TestRouterBeforeFirstLoad(t *testing.T) {
	a := newTestApp(t)

	rec, body := call(t, a, http.MethodGet, "/health", 0)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", body["status"])

	rec, body = call(t, a, http.MethodGet, "/api/v1/grades", 1)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "UNAVAILABLE", body["error_code"])
}

func TestRouterIdentityGate(t *testing.T) {
	a := newTestApp(t)
	_, err := a.Gradebook.Refresh(context.Background())
	require.NoError(t, err)

	rec, _ := call(t, a, http.MethodGet, "/api/v1/grades", 0)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = call(t, a, http.MethodGet, "/api/v1/grades", 9)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = call(t, a, http.MethodGet, "/api/v1/grades", adminID)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterScopesRecordsToCaller(t *testing.T) {
	a := newTestApp(t)
	_, err := a.Gradebook.Refresh(context.Background())
	require.NoError(t, err)

	rec, body := call(t, a, http.MethodGet, "/api/v1/grades?student=2", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["count"])
	for _, item := range body["items"].([]interface{}) {
		assert.Equal(t, "1", item.(map[string]interface{})["user_id"])
	}

	rec, body = call(t, a, http.MethodGet, "/api/v1/grades?student=2", adminID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["count"])
	for _, item := range body["items"].([]interface{}) {
		assert.Equal(t, "2", item.(map[string]interface{})["user_id"])
	}

	rec, body = call(t, a, http.MethodGet, "/api/v1/grades", adminID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(5), body["count"])
}

func TestRouterDashboardIsAdminOnly(t *testing.T) {
	a := newTestApp(t)
	_, err := a.Gradebook.Refresh(context.Background())
	require.NoError(t, err)

	rec, _ := call(t, a, http.MethodGet, "/api/v1/dashboard", 1)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body := call(t, a, http.MethodGet, "/api/v1/dashboard?search=bo", adminID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])
}

func TestRouterRefreshFailureKeepsData(t *testing.T) {
	loader := &stubLoader{ds: testutil.SampleDataset()}
	a := newTestApp(t, WithDatasetLoader(loader))

	rec, _ := call(t, a, http.MethodPost, "/api/v1/refresh", 1)
	require.Equal(t, http.StatusOK, rec.Code)

	loader.err = assertNetworkError()
	rec, _ = call(t, a, http.MethodPost, "/api/v1/refresh", 1)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec, body := call(t, a, http.MethodGet, "/api/v1/ranking", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), body["count"])

	rec, body = call(t, a, http.MethodGet, "/health", 0)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "degraded", body["status"])
}

func TestRouterAdvice(t *testing.T) {
	t.Run("without advisor", func(t *testing.T) {
		a := newTestApp(t)
		_, err := a.Gradebook.Refresh(context.Background())
		require.NoError(t, err)

		rec, body := call(t, a, http.MethodGet, "/api/v1/advice/rating", 1)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, advice.RatingUnavailable, body["text"])
	})

	t.Run("with advisor", func(t *testing.T) {
		a := newTestApp(t, WithAdvisor(stubAdvisor{reply: "revise the heart"}))
		_, err := a.Gradebook.Refresh(context.Background())
		require.NoError(t, err)

		rec, body := call(t, a, http.MethodGet, "/api/v1/advice/rating", 1)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, advice.RatingFirst, body["text"])

		rec, body = call(t, a, http.MethodGet, "/api/v1/advice/grades/Physiology", 1)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "revise the heart", body["text"])
	})
}

func TestRouterFallbacks(t *testing.T) {
	a := newTestApp(t)

	rec, body := call(t, a, http.MethodGet, "/nope", 0)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "/nope", body["instance"])

	rec, _ = call(t, a, http.MethodGet, "/metrics", 0)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = call(t, a, http.MethodDelete, "/health", 0)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouterSetsRequestID(t *testing.T) {
	a := newTestApp(t)

	rec, _ := call(t, a, http.MethodGet, "/health/live", 0)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestLayoutFromConfig(t *testing.T) {
	c := config.LayoutConfig{Offsets: []int{0, 20}, Height: 20, FirstGradeColumn: 4, FirstAbsenceColumn: 3}

	l := LayoutFromConfig(c)
	c.Offsets[0] = 99

	assert.Equal(t, []int{0, 20}, l.Offsets)
	assert.Equal(t, 20, l.Height)
	assert.Equal(t, 4, l.FirstGradeColumn)
	assert.Equal(t, 3, l.FirstAbsenceColumn)
}

func TestStartAndStop(t *testing.T) {
	a := newTestApp(t)
	a.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, a.Start(ctx, cancel))

	require.Eventually(t, func() bool { return a.Gradebook.Status().Loaded }, 2*time.Second, 10*time.Millisecond)
	assert.NoError(t, a.Stop(ctx))
}

func assertNetworkError() error {
	return apierrors.NewNetworkError("failed to fetch grades sheet", assert.AnError)
}
