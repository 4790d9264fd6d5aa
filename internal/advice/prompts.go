package advice

import (
	"fmt"
	"sort"
	"strings"

	"gradesync/internal/dataprocessing"
	"gradesync/pkg/contracts/domain"
)

// Kind names the advice flavour, used in metrics and logs
type Kind string

const (
	KindGrades   Kind = "grades"
	KindRating   Kind = "rating"
	KindAbsences Kind = "absences"
)

// Texts shown without a model call
const (
	GradesUnavailable   = "AI-анализ временно недоступен."
	RatingUnavailable   = "Анализ рейтинга временно недоступен."
	AbsencesUnavailable = "Анализ отработок временно недоступен."

	GradesAllGood  = "Отличная работа! Все темы усвоены хорошо. Продолжай в том же духе!"
	RatingFirst    = "Поздравляю, ты на первом месте! Это потрясающий результат. Так держать!"
	AbsencesNone   = "Отлично! У тебя нет пропусков практических занятий. Так держать!"
	GradesFallback = "Не удалось сгенерировать рекомендации. Пожалуйста, попробуйте еще раз позже."

	RatingFallback   = "Не удалось получить персональный совет. Но я уверен, у тебя все получится!"
	AbsencesFallback = "Не удалось получить персональный совет. Постарайся не пропускать занятия!"
)

// Prompt is either a model request or a canned reply
type Prompt struct {
	Kind Kind
	// Text is sent to the model when Canned is empty
	Text string
	// Canned is returned as is, without a model call
	Canned string
	// Fallback replaces a failed model call
	Fallback string
}

// NeedsModel reports whether the prompt has to be sent to an Advisor
func (p Prompt) NeedsModel() bool { return p.Canned == "" }

// GradeAnalysisPrompt asks for recommendations on the weak topics of one
// subject. Without topics at or below the improvement threshold the reply is
// a fixed congratulation.
func GradeAnalysisPrompt(subject string, grades []domain.GradeRecord) Prompt {
	p := Prompt{Kind: KindGrades, Fallback: GradesFallback}

	weak := dataprocessing.TopicsToImprove(grades, dataprocessing.ImprovementThreshold)
	if len(weak) == 0 {
		p.Canned = GradesAllGood
		return p
	}

	all := make([]string, 0, len(grades))
	for _, g := range grades {
		all = append(all, fmt.Sprintf("Тема: %q, Оценка: %s", g.Topic, scoreText(g.Score)))
	}
	improve := make([]string, 0, len(weak))
	for _, g := range weak {
		improve = append(improve, fmt.Sprintf("%q (%s баллов)", g.Topic, g.Score))
	}

	var b strings.Builder
	b.WriteString("Ты — опытный AI-наставник для студента-медика.\n")
	fmt.Fprintf(&b, "Проанализируй успеваемость по предмету %q.\n\n", subject)
	fmt.Fprintf(&b, "Вот все оценки студента по этому предмету: %s.\n\n", strings.Join(all, "; "))
	fmt.Fprintf(&b, "Особое внимание удели темам, которые требуют улучшения (балл %d и ниже): %s.\n\n",
		dataprocessing.ImprovementThreshold, strings.Join(improve, ", "))
	b.WriteString("Дай краткие, четкие и практические рекомендации по улучшению знаний именно по этим \"проблемным\" темам.\n")
	b.WriteString("Не нужно писать общие советы. Твои рекомендации должны быть конкретными и по делу.\n")
	b.WriteString("Отвечай на русском языке. Отформатируй ответ как простой текст, без списков.")
	p.Text = b.String()
	return p
}

// RatingAnalysisPrompt asks for a motivating message about the student's
// place. me is nil when the student has no rank. First place gets a fixed
// reply. The gap is measured to the entry ranked exactly one place higher,
// which does not exist right below a tie. Without both averages the generic
// motivation line is used.
func RatingAnalysisPrompt(me *domain.RankedStudent, ranked []domain.RankedStudent, name string) Prompt {
	p := Prompt{Kind: KindRating, Fallback: RatingFallback}
	if me == nil {
		p.Canned = RatingUnavailable
		return p
	}
	if me.Rank == 1 {
		p.Canned = RatingFirst
		return p
	}

	goal := "Продолжай усердно работать, чтобы подняться в рейтинге!"
	for _, r := range ranked {
		if r.Rank == me.Rank-1 && r.Average != 0 && me.Average != 0 {
			goal = fmt.Sprintf("Чтобы подняться выше и обогнать %s, тебе нужно набрать всего %.2f балла.",
				r.Name, r.Average-me.Average)
			break
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Ты — AI-ассистент, который должен мотивировать студента по имени %s.\n", name)
	fmt.Fprintf(&b, "Его текущее место в рейтинге: %d из %d.\n", me.Rank, len(ranked))
	fmt.Fprintf(&b, "Средний балл: %.2f.\n", me.Average)
	b.WriteString(goal + "\n\n")
	b.WriteString("Напиши короткое, дружелюбное и мотивирующее сообщение (2-3 предложения).\n")
	b.WriteString("Подбодри студента, скажи, что у него всё получится. Не используй списки или markdown.\n")
	b.WriteString("Говори как друг и помощник.")
	p.Text = b.String()
	return p
}

// AbsenceAnalysisPrompt asks for encouragement focused on the subject with
// the most absences. Ties go to the subject seen first.
func AbsenceAnalysisPrompt(groups []domain.SubjectGroup, name string) Prompt {
	p := Prompt{Kind: KindAbsences, Fallback: AbsencesFallback}

	var withAbsences []domain.SubjectGroup
	for _, g := range groups {
		if len(g.Records) > 0 {
			withAbsences = append(withAbsences, g)
		}
	}
	if len(withAbsences) == 0 {
		p.Canned = AbsencesNone
		return p
	}
	sort.SliceStable(withAbsences, func(i, j int) bool {
		return len(withAbsences[i].Records) > len(withAbsences[j].Records)
	})
	focus := withAbsences[0]

	var b strings.Builder
	fmt.Fprintf(&b, "Ты — дружелюбный AI-ассистент для студента по имени %s.\n", name)
	b.WriteString("Проанализируй его пропуски занятий.\n")
	fmt.Fprintf(&b, "Больше всего пропусков (%d) по предмету %q.\n\n", len(focus.Records), focus.Subject)
	b.WriteString("Напиши короткое (2-3 предложения), ободряющее сообщение.\n")
	b.WriteString("Посоветуй студенту обратить особое внимание на этот предмет, чтобы не накопить долги и вовремя всё сдать.\n")
	b.WriteString("Не используй списки или markdown. Твой тон должен быть поддерживающим, а не ругающим.")
	p.Text = b.String()
	return p
}

func scoreText(s domain.Score) string {
	if s.Kind == domain.ScoreNone {
		return "нет оценки"
	}
	return s.String()
}
