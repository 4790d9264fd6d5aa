package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"gradesync/internal/config"
)

// ErrEmptyReply is returned when the model answers with no text
var ErrEmptyReply = errors.New("model returned an empty reply")

// Advisor turns a prompt into advice text
type Advisor interface {
	Advise(ctx context.Context, prompt string) (string, error)
}

// GeminiAdvisor calls a Gemini model through the Google GenAI SDK
type GeminiAdvisor struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiAdvisor creates an advisor for cfg. It fails when cfg has no API key.
func NewGeminiAdvisor(ctx context.Context, cfg config.AdviceConfig) (*GeminiAdvisor, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultAdviceModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiAdvisor{client: client, model: model, timeout: cfg.Timeout}, nil
}

// Model returns the configured model name
func (a *GeminiAdvisor) Model() string { return a.model }

// Advise sends prompt as a single user turn and returns the reply text
func (a *GeminiAdvisor) Advise(ctx context.Context, prompt string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
