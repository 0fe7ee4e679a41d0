package summary

import (
	"context"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const summaryPrompt = `You are summarizing a tutoring session transcript.
Produce a short structured report with: topics covered, learner progress,
and suggested next steps. Transcript follows:

`

// GeminiProvider generates session reports with the Gemini API.
type GeminiProvider struct {
	model *genai.GenerativeModel
}

func NewGeminiProvider(apiKey string) (*GeminiProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("models/gemini-1.5-pro")
	return &GeminiProvider{model: model}, nil
}

func (g *GeminiProvider) Summarize(ctx context.Context, transcript string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(summaryPrompt+transcript))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String(), nil
}
