package narrate

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"errlens/internal/model"
)

// GeminiSummarizer implements Summarizer using Gemini text generation.
type GeminiSummarizer struct {
	client        *genai.Client
	model         string
	promptBuilder *PromptBuilder
	log           *slog.Logger
}

// NewGeminiSummarizer creates a Gemini-backed summarizer.
func NewGeminiSummarizer(ctx context.Context, apiKey, modelName string) (*GeminiSummarizer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiSummarizer{
		client:        client,
		model:         modelName,
		promptBuilder: &PromptBuilder{},
		log:           slog.Default().With("component", "narrate"),
	}, nil
}

// Summarize implements Summarizer.
func (s *GeminiSummarizer) Summarize(ctx context.Context, report *model.CoverageReport, flows []model.ErrorFlow, extras Extras) (string, error) {
	prompt := s.promptBuilder.BuildSummaryPrompt(report, flows, extras)
	s.log.Debug("generating summary", "model", s.model, "promptBytes", len(prompt))

	contents := genai.Text(prompt)
	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "No analysis available.", nil
	}
	return cleanMarkdownOutput(text), nil
}
