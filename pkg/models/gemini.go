package models

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiMaxStops is the number of stop sequences GenerationConfig accepts.
const geminiMaxStops = 5

// ---------------------------- Google Gemini ----------------------------------

type GeminiLLM struct {
	Client    *genai.Client
	Model     string
	MaxTokens int
}

func NewGeminiLLM(ctx context.Context, model string, maxTokens int) (*GeminiLLM, error) {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY or GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	return &GeminiLLM{Client: client, Model: model, MaxTokens: maxTokens}, nil
}

func (g *GeminiLLM) Generate(ctx context.Context, prompt string, stop []string) (string, error) {
	model := g.Client.GenerativeModel(g.Model)
	model.StopSequences = limitStops(stop, geminiMaxStops)
	if g.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(g.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: empty response")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return cutAtStop(b.String(), stop), nil
}

// Close releases the underlying gRPC connection.
func (g *GeminiLLM) Close() error {
	return g.Client.Close()
}

var _ LLM = (*GeminiLLM)(nil)
