// Package llm talks to the language models that suggest decks and deck names.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Provider names accepted by NewProvider.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// CompletionRequest is a single system + user prompt exchange.
type CompletionRequest struct {
	System      string
	Prompt      string
	JSON        bool // ask the model for a JSON object
	Temperature float64
}

// Provider completes prompts with one language model backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ProviderConfig selects and configures a provider.
type ProviderConfig struct {
	Provider         string
	Model            string
	BaseURL          string
	APIKey           string
	RequestTimeout   time.Duration
	InferenceTimeout time.Duration
}

// NewProvider builds the provider named in config.
func NewProvider(ctx context.Context, config ProviderConfig) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case ProviderOllama, "":
		oc := DefaultOllamaConfig()
		if config.BaseURL != "" {
			oc.BaseURL = config.BaseURL
		}
		if config.Model != "" {
			oc.Model = config.Model
		}
		if config.RequestTimeout > 0 {
			oc.RequestTimeout = config.RequestTimeout
		}
		if config.InferenceTimeout > 0 {
			oc.InferenceTimeout = config.InferenceTimeout
		}
		return NewOllamaClient(oc), nil

	case ProviderOpenAI:
		c := DefaultOpenAIConfig(config.APIKey)
		if config.BaseURL != "" {
			c.BaseURL = config.BaseURL
		}
		if config.Model != "" {
			c.Model = config.Model
		}
		if config.InferenceTimeout > 0 {
			c.Timeout = config.InferenceTimeout
		}
		return NewOpenAIClient(c)

	case ProviderGemini:
		return NewGeminiClient(ctx, config.APIKey, config.Model)

	default:
		return nil, fmt.Errorf("unknown llm provider %q", config.Provider)
	}
}

// stripThinking drops a leading <think>...</think> block some local models emit.
func stripThinking(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "</think>"); idx != -1 {
		text = strings.TrimSpace(text[idx+len("</think>"):])
	}
	return text
}
