package models

import (
	"context"
	"errors"
	"os"

	"github.com/sashabaranov/go-openai"
)

// openAIMaxStops is the number of stop sequences the chat completions API accepts.
const openAIMaxStops = 4

type OpenAILLM struct {
	Client    *openai.Client
	Model     string
	MaxTokens int
}

// NewOpenAILLM reads OPENAI_API_KEY (or OPENAI_KEY) from the environment.
func NewOpenAILLM(model string, maxTokens int) (*OpenAILLM, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_KEY") // fallback
	}
	if apiKey == "" {
		return nil, errors.New("missing OPENAI_API_KEY")
	}
	return &OpenAILLM{Client: openai.NewClient(apiKey), Model: model, MaxTokens: maxTokens}, nil
}

func (o *OpenAILLM) Generate(ctx context.Context, prompt string, stop []string) (string, error) {
	stops := limitStops(stop, openAIMaxStops)
	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.Model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		Stop:      stops,
		MaxTokens: o.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	// Only the first four stops are enforced remotely.
	return cutAtStop(resp.Choices[0].Message.Content, stop), nil
}

var _ LLM = (*OpenAILLM)(nil)
