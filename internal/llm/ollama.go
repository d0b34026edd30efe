package llm

import "fmt"

const defaultOllamaBaseURL = "http://localhost:11434/v1"

// OllamaProvider chats with a local Ollama server through its
// OpenAI-compatible endpoint.
type OllamaProvider struct {
	*OpenAIProvider
}

func NewOllamaProvider(cfg OllamaConfig) (*OllamaProvider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}

	// Ollama ignores the key but the SDK sends one.
	inner, err := NewOpenAIProvider(OpenAIConfig{APIKey: "ollama", Model: cfg.Model, BaseURL: baseURL})
	if err != nil {
		return nil, err
	}
	inner.name = ProviderOllama
	inner.legacyMaxTokens = true
	return &OllamaProvider{OpenAIProvider: inner}, nil
}
