package advice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockAdvisor struct {
	mock.Mock
}

func (m *mockAdvisor) Advise(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestServiceAnswer(t *testing.T) {
	ctx := context.Background()
	modelPrompt := Prompt{Kind: KindGrades, Text: "help", Fallback: GradesFallback}

	t.Run("disabled", func(t *testing.T) {
		s := NewService(nil, quiet())
		assert.False(t, s.Enabled())
		assert.Equal(t, GradesUnavailable, s.Answer(ctx, modelPrompt))
		assert.Equal(t, RatingUnavailable, s.Answer(ctx, Prompt{Kind: KindRating, Canned: RatingFirst}))
		assert.Equal(t, AbsencesUnavailable, s.Answer(ctx, Prompt{Kind: KindAbsences}))
	})

	t.Run("canned reply skips the model", func(t *testing.T) {
		m := &mockAdvisor{}
		s := NewService(m, quiet())
		assert.Equal(t, RatingFirst, s.Answer(ctx, Prompt{Kind: KindRating, Canned: RatingFirst}))
		m.AssertNotCalled(t, "Advise", mock.Anything, mock.Anything)
	})

	t.Run("model reply", func(t *testing.T) {
		m := &mockAdvisor{}
		m.On("Advise", mock.Anything, "help").Return("Повтори тему костей.", nil).Once()
		s := NewService(m, quiet())

		assert.Equal(t, "Повтори тему костей.", s.Answer(ctx, modelPrompt))
		m.AssertExpectations(t)
	})

	t.Run("model failure falls back", func(t *testing.T) {
		m := &mockAdvisor{}
		m.On("Advise", mock.Anything, "help").Return("", errors.New("quota exceeded")).Once()
		s := NewService(m, quiet())

		assert.Equal(t, GradesFallback, s.Answer(ctx, modelPrompt))
		m.AssertExpectations(t)
	})
}
