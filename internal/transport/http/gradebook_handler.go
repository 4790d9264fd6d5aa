package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "gradesync/internal/errors"
	"gradesync/internal/infrastructure"
	"gradesync/internal/middleware"
	"gradesync/internal/services"
	api "gradesync/pkg/contracts/api/v1"
)

// GradebookHandler serves the gradebook read endpoints and refresh
type GradebookHandler struct {
	service      GradebookService
	validator    *middleware.Validator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewGradebookHandler creates a gradebook handler
func NewGradebookHandler(service GradebookService, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *GradebookHandler {
	return &GradebookHandler{
		service:      service,
		validator:    middleware.NewValidator(),
		errorHandler: errorHandler,
		logger:       infrastructure.WithComponent(logger, "gradebook_handler"),
	}
}

// Routes mounts the gradebook endpoints. Identity must already be in the
// request context.
func (h *GradebookHandler) Routes(r chi.Router) {
	r.Get("/me", h.GetMe)
	r.Get("/grades", h.GetGrades)
	r.Get("/lecture-absences", h.GetLectureAbsences)
	r.Get("/homework", h.GetHomework)
	r.Get("/homework/lookup", h.LookupHomework)
	r.Get("/ranking", h.GetRanking)
	r.With(middleware.RequireAdmin(h.errorHandler)).Get("/dashboard", h.GetDashboard)
	r.Post("/refresh", h.Refresh)
}

func (h *GradebookHandler) list(w http.ResponseWriter, r *http.Request, n int, items interface{}) {
	render.JSON(w, r, api.ListResponse{Count: n, LoadedAt: h.service.Status().LoadedAt, Items: items})
}

// GetMe handles GET /api/v1/me
func (h *GradebookHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.StudentReport(viewerFrom(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// GetGrades handles GET /api/v1/grades
func (h *GradebookHandler) GetGrades(w http.ResponseWriter, r *http.Request) {
	grades, err := h.service.Grades(viewerFrom(r), studentParam(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.list(w, r, len(grades), grades)
}

// GetLectureAbsences handles GET /api/v1/lecture-absences
func (h *GradebookHandler) GetLectureAbsences(w http.ResponseWriter, r *http.Request) {
	absences, err := h.service.LectureAbsences(viewerFrom(r), studentParam(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.list(w, r, len(absences), absences)
}

// GetHomework handles GET /api/v1/homework
func (h *GradebookHandler) GetHomework(w http.ResponseWriter, r *http.Request) {
	homework, err := h.service.Homeworks()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.list(w, r, len(homework), homework)
}

// LookupHomework handles GET /api/v1/homework/lookup?week=&day=&subject=
func (h *GradebookHandler) LookupHomework(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := api.HomeworkLookupRequest{
		Day:     strings.TrimSpace(q.Get("day")),
		Subject: strings.TrimSpace(q.Get("subject")),
	}
	if raw := q.Get("week"); raw != "" {
		week, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.InvalidParameterError("week", err))
			return
		}
		params.Week = week
	}
	if err := h.validator.Struct(params); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	hw, err := h.service.LookupHomework(params.Week, params.Day, params.Subject)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, hw)
}

// GetRanking handles GET /api/v1/ranking
func (h *GradebookHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.service.Ranking()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.list(w, r, len(ranked), ranked)
}

// GetDashboard handles GET /api/v1/dashboard?search=
func (h *GradebookHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	students, err := h.service.Dashboard(r.URL.Query().Get("search"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	h.list(w, r, len(students), students)
}

// Refresh handles POST /api/v1/refresh. A failed load answers 502 and the
// previously loaded data stays in service.
func (h *GradebookHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	v := viewerFrom(r)
	h.logger.InfoContext(r.Context(), "refresh requested", slog.Int64("user_id", v.Identity.ID))

	status, err := h.service.Refresh(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, status)
}

// viewerFrom builds the viewer from the identity stored by middleware.Identity
func viewerFrom(r *http.Request) services.Viewer {
	id, _ := middleware.IdentityFromContext(r.Context())
	return services.Viewer{Identity: id, Admin: middleware.IsAdmin(r.Context())}
}

func studentParam(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("student"))
}
