package out

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	assistantout "chronos/internal/modules/assistant/port/out"
)

type GeminiGenerator struct {
	client *genai.Client
}

// NewGeminiGenerator creates a Gemini API client. baseURL is optional and
// only used to point at a proxy.
func NewGeminiGenerator(ctx context.Context, apiKey, baseURL string) (*GeminiGenerator, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiGenerator{client: client}, nil
}

func (g *GeminiGenerator) Name() string { return "gemini" }

func (g *GeminiGenerator) Generate(ctx context.Context, req assistantout.Request) (string, error) {
	temp := req.Temperature
	res, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		Temperature: &temp,
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return res.Text(), nil
}

var _ assistantout.TextGenerator = (*GeminiGenerator)(nil)
