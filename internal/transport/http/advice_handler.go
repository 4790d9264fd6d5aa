package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "gradesync/internal/errors"
	"gradesync/internal/infrastructure"
	api "gradesync/pkg/contracts/api/v1"
)

// AdviceHandler serves generated study advice
type AdviceHandler struct {
	service      AdviceService
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewAdviceHandler creates an advice handler
func NewAdviceHandler(service AdviceService, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *AdviceHandler {
	return &AdviceHandler{
		service:      service,
		errorHandler: errorHandler,
		logger:       infrastructure.WithComponent(logger, "advice_handler"),
	}
}

// Routes mounts the advice endpoints under /advice
func (h *AdviceHandler) Routes(r chi.Router) {
	r.Route("/advice", func(r chi.Router) {
		r.Get("/grades/{subject}", h.GetGradeAdvice)
		r.Get("/rating", h.GetRatingAdvice)
		r.Get("/absences", h.GetAbsenceAdvice)
	})
}

// GetGradeAdvice handles GET /api/v1/advice/grades/{subject}
func (h *AdviceHandler) GetGradeAdvice(w http.ResponseWriter, r *http.Request) {
	subject := chi.URLParam(r, "subject")
	if subject == "" {
		h.errorHandler.HandleError(w, r, apierrors.MissingParameterError("subject"))
		return
	}

	text, err := h.service.GradeAdvice(r.Context(), viewerFrom(r), subject)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.AdviceResponse{Kind: "grades", Subject: subject, Text: text})
}

// GetRatingAdvice handles GET /api/v1/advice/rating
func (h *AdviceHandler) GetRatingAdvice(w http.ResponseWriter, r *http.Request) {
	text, err := h.service.RatingAdvice(r.Context(), viewerFrom(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.AdviceResponse{Kind: "rating", Text: text})
}

// GetAbsenceAdvice handles GET /api/v1/advice/absences
func (h *AdviceHandler) GetAbsenceAdvice(w http.ResponseWriter, r *http.Request) {
	text, err := h.service.AbsenceAdvice(r.Context(), viewerFrom(r))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.AdviceResponse{Kind: "absences", Text: text})
}
