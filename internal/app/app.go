package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"gradesync/internal/advice"
	"gradesync/internal/config"
	"gradesync/internal/dataprocessing"
	apierrors "gradesync/internal/errors"
	"gradesync/internal/infrastructure"
	customMiddleware "gradesync/internal/middleware"
	"gradesync/internal/services"
	"gradesync/internal/sheets"
	handlers "gradesync/internal/transport/http"
)

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.GradebookMetrics

	Gradebook *services.GradebookService
	Advice    *services.AdviceService
	Health    *services.HealthService

	loader       services.DatasetLoader
	advisor      advice.Advisor
	errorHandler *apierrors.ErrorHandler
}

// Option customizes NewApplication
type Option func(*Application)

// WithLogger replaces the global logger built from cfg.Logging
func WithLogger(logger *slog.Logger) Option {
	return func(a *Application) { a.Logger = logger }
}

// WithDatasetLoader replaces the sheet loader built from cfg.Sheets
func WithDatasetLoader(loader services.DatasetLoader) Option {
	return func(a *Application) { a.loader = loader }
}

// WithAdvisor replaces the Gemini advisor built from cfg.Advice
func WithAdvisor(advisor advice.Advisor) Option {
	return func(a *Application) { a.advisor = advisor }
}

// NewApplication wires every component from cfg
func NewApplication(ctx context.Context, cfg *config.Config, opts ...Option) (*Application, error) {
	a := &Application{Config: cfg}
	for _, opt := range opts {
		opt(a)
	}

	if a.Logger == nil {
		logger, err := infrastructure.InitializeLogger(cfg.Logging)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.Logger = logger
	}

	a.Logger.Info("application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, a.Logger)
	if err != nil {
		return nil, apierrors.NewConfigError("failed to initialize OpenTelemetry", err)
	}
	a.OTelProviders = providers

	metrics, err := infrastructure.NewGradebookMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	a.Metrics = metrics

	if err := a.initializeServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	a.setupRouter()
	a.createServer()

	return a, nil
}

// initializeServices builds the loader, advisor and services
func (a *Application) initializeServices(ctx context.Context) error {
	if a.loader == nil {
		a.loader = NewSheetLoader(a.Config.Sheets, a.Logger, a.OTelProviders, a.Metrics)
	}

	if a.advisor == nil && a.Config.Advice.APIKey != "" {
		gemini, err := advice.NewGeminiAdvisor(ctx, a.Config.Advice)
		if err != nil {
			return fmt.Errorf("failed to create advisor: %w", err)
		}
		a.advisor = gemini
		a.Logger.Info("advice enabled", slog.String("model", gemini.Model()))
	} else if a.advisor == nil {
		a.Logger.Warn("advice API key not set, fixed advice texts will be served")
	}

	a.Gradebook = services.NewGradebookService(a.loader,
		services.WithGradebookLogger(a.Logger),
		services.WithGradebookMetrics(a.Metrics))

	adviceSvc := advice.NewService(a.advisor,
		advice.WithLogger(a.Logger),
		advice.WithMetrics(a.Metrics),
		advice.WithTracer(a.OTelProviders.Tracer))
	a.Advice = services.NewAdviceService(a.Gradebook, adviceSvc)
	a.Health = services.NewHealthService(config.AppVersion, a.Gradebook, adviceSvc.Enabled(), a.Logger)

	a.errorHandler = apierrors.NewErrorHandler(a.Logger, a.Config.Logging.Development)
	return nil
}

// NewSheetLoader builds the fetch-and-decode pipeline for cfg. The CLI uses
// it directly for one-off fetches.
func NewSheetLoader(cfg config.SheetsConfig, logger *slog.Logger, providers *infrastructure.OTelProviders, metrics *infrastructure.GradebookMetrics) *sheets.Loader {
	clientOpts := []sheets.ClientOption{
		sheets.WithCacheBustParam(cfg.CacheBustParam),
		sheets.WithClientLogger(logger),
		sheets.WithClientMetrics(metrics),
	}
	loaderOpts := []sheets.LoaderOption{
		sheets.WithDecoder(dataprocessing.NewDecoder(
			dataprocessing.WithLayout(LayoutFromConfig(cfg.Layout)),
			dataprocessing.WithLogger(logger))),
		sheets.WithLoaderLogger(logger),
		sheets.WithLoaderMetrics(metrics),
	}
	if providers != nil {
		clientOpts = append(clientOpts, sheets.WithClientTracer(providers.Tracer))
		loaderOpts = append(loaderOpts, sheets.WithLoaderTracer(providers.Tracer))
	}

	client := sheets.NewClient(cfg.HTTPTimeout, clientOpts...)
	return sheets.NewLoader(client, sheets.URLs{
		Grades:          cfg.GradesURL,
		Homework:        cfg.HomeworkURL,
		LectureAbsences: cfg.LectureAbsencesURL,
	}, loaderOpts...)
}

// LayoutFromConfig converts the configured block geometry
func LayoutFromConfig(c config.LayoutConfig) dataprocessing.BlockLayout {
	return dataprocessing.BlockLayout{
		Offsets:            append([]int(nil), c.Offsets...),
		Height:             c.Height,
		FirstGradeColumn:   c.FirstGradeColumn,
		FirstAbsenceColumn: c.FirstAbsenceColumn,
	}
}

// setupRouter builds the chi router.
// Ordering: RequestID, RealIP, Telemetry, Logger, Recoverer, then the
// security layers and finally the identity gate on /api/v1.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.Telemetry(a.OTelProviders.Tracer, a.Metrics))
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.errorHandler))
	r.Use(chimiddleware.CleanPath)
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			MaxAge:         300,
		}))
	}
	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.errorHandler,
			a.Logger,
		).Handler)
	}

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	handlers.NewHealthHandler(a.Health, a.Logger).Routes(r)
	r.Method(http.MethodGet, "/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.errorHandler))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.NoCache)
		r.Use(customMiddleware.Identity(a.Config.Access, a.errorHandler, a.Logger))

		handlers.NewGradebookHandler(a.Gradebook, a.errorHandler, a.Logger).Routes(r)
		handlers.NewAdviceHandler(a.Advice, a.errorHandler, a.Logger).Routes(r)
	})

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start launches the refresh loop and the HTTP server. cancel is called when
// the server fails so Run can shut down.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting application",
		slog.Int("port", a.Config.Server.Port),
		slog.Duration("refresh_interval", a.Config.Sheets.RefreshInterval),
		slog.String("level", a.Config.Logging.Level))

	go a.Gradebook.Run(ctx, a.Config.Sheets.RefreshInterval)

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the server and flushes telemetry
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	if err := infrastructure.CloseLogFile(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}

// Run serves until ctx is cancelled or the process receives SIGINT or SIGTERM
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	<-ctx.Done()
	a.Logger.InfoContext(ctx, "received shutdown signal")
	return a.Stop(ctx)
}
