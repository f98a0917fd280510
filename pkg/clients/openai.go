package clients

import (
	"fmt"

	"github.com/tmc/langchaingo/llms/openai"
)

// ModelType is an enum for the chat models used by the workflows.
type ModelType string

const (
	// DefaultModel is used for content generation when none is specified
	DefaultModel ModelType = "gpt-4o"
	// FastModel is used for classification and extraction calls
	FastModel ModelType = "gpt-4o-mini"
)

// perplexityBaseURL is the OpenAI-compatible endpoint for Perplexity Sonar.
const perplexityBaseURL = "https://api.perplexity.ai"

// OpenAI builds a chat model client for the given model name.
func OpenAI(apiKey string, model string) (*openai.LLM, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is not configured")
	}
	if model == "" {
		model = string(DefaultModel)
	}

	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	return llm, nil
}

// Perplexity builds a chat model client against Perplexity's OpenAI-compatible API.
func Perplexity(apiKey string, model string) (*openai.LLM, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Perplexity API key is not configured")
	}
	if model == "" {
		model = "sonar"
	}

	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
		openai.WithBaseURL(perplexityBaseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Perplexity client: %w", err)
	}

	return llm, nil
}
