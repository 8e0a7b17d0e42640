package models

import (
	"context"
	"fmt"
	"strings"
)

// Provider names accepted by NewLLMProvider.
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
	ProviderDummy     = "dummy"
)

// NewLLMProvider builds the completion gateway for the configured provider.
// Provider choice is made once at startup.
func NewLLMProvider(ctx context.Context, provider string, model string, maxTokens int) (LLM, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderOpenAI:
		return NewOpenAILLM(model, maxTokens)
	case ProviderGemini, "google":
		return NewGeminiLLM(ctx, model, maxTokens)
	case ProviderOllama:
		return NewOllamaLLM(model)
	case ProviderAnthropic, "claude":
		return NewAnthropicLLM(model, maxTokens)
	case ProviderDummy:
		return NewDummyLLM(), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}

// cutAtStop truncates text at the earliest occurrence of any stop sequence.
// Providers that do not enforce stop sequences server-side, and the dummy
// model, use it so every LLM honours the same contract.
func cutAtStop(text string, stop []string) string {
	cut := len(text)
	for _, s := range stop {
		if s == "" {
			continue
		}
		if idx := strings.Index(text, s); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return text[:cut]
}

// limitStops clamps the stop list to the number a provider accepts,
// dropping empty entries.
func limitStops(stop []string, max int) []string {
	out := make([]string, 0, len(stop))
	for _, s := range stop {
		if s == "" {
			continue
		}
		out = append(out, s)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}
