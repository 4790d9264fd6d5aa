package services

import (
	"context"

	"gradesync/internal/advice"
	"gradesync/internal/dataprocessing"
)

// AdviceService answers advice requests from the current gradebook
type AdviceService struct {
	gradebook *GradebookService
	advice    *advice.Service
}

// NewAdviceService creates an advice service
func NewAdviceService(gradebook *GradebookService, svc *advice.Service) *AdviceService {
	return &AdviceService{gradebook: gradebook, advice: svc}
}

// GradeAdvice returns recommendations for v's weak topics in subject
func (a *AdviceService) GradeAdvice(ctx context.Context, v Viewer, subject string) (string, error) {
	grades, err := a.gradebook.SubjectGrades(v, subject)
	if err != nil {
		return "", err
	}
	return a.advice.Answer(ctx, advice.GradeAnalysisPrompt(grades[0].Subject, grades)), nil
}

// RatingAdvice returns a motivating message about v's rank
func (a *AdviceService) RatingAdvice(ctx context.Context, v Viewer) (string, error) {
	me, ranked, err := a.gradebook.RankOf(v)
	if err != nil {
		return "", err
	}
	return a.advice.Answer(ctx, advice.RatingAnalysisPrompt(me, ranked, v.Name())), nil
}

// AbsenceAdvice returns encouragement about v's practical class absences
func (a *AdviceService) AbsenceAdvice(ctx context.Context, v Viewer) (string, error) {
	grades, err := a.gradebook.Grades(v, v.StudentID())
	if err != nil {
		return "", err
	}
	groups := dataprocessing.AbsenceSummary(grades)
	return a.advice.Answer(ctx, advice.AbsenceAnalysisPrompt(groups, v.Name())), nil
}
