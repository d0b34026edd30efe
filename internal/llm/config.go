package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in configuration.
const (
	ProviderNone      = "none"
	ProviderAuto      = "auto"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "ollama", "gemini", "mock", "auto", "none"
	Provider string

	Anthropic AnthropicConfig
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
	Ollama    OllamaConfig
	Retry     RetryConfig
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// OllamaConfig holds configuration for a local Ollama server.
type OllamaConfig struct {
	Model   string // Default: "llama3"
	BaseURL string // Default: "http://localhost:11434/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64

	// AttemptTimeout bounds each call. Zero leaves only the caller's deadline.
	AttemptTimeout time.Duration
}

// Settings is the flat provider selection read from the config file.
type Settings struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	MaxAttempts int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderNone,
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		Ollama: OllamaConfig{
			Model:   "llama3",
			BaseURL: defaultOllamaBaseURL,
		},
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,

			AttemptTimeout: 30 * time.Second,
		},
	}
}

// ConfigFromSettings maps the flat settings onto the selected provider.
// "auto" probes the standard API key variables; if none is set the
// result has Provider "none".
func ConfigFromSettings(s Settings) Config {
	cfg := DefaultConfig()
	if s.Timeout > 0 {
		cfg.Retry.AttemptTimeout = s.Timeout
	}
	if s.MaxAttempts > 0 {
		cfg.Retry.MaxAttempts = s.MaxAttempts
	}

	provider := s.Provider
	if provider == "" {
		provider = ProviderNone
	}
	if provider == ProviderAuto {
		found, ok := DiscoverConfig()
		if !ok {
			return cfg
		}
		found.Retry = cfg.Retry
		cfg = found
		provider = cfg.Provider
	}
	cfg.Provider = provider

	switch provider {
	case ProviderAnthropic:
		setIf(&cfg.Anthropic.APIKey, s.APIKey)
		setIf(&cfg.Anthropic.Model, s.Model)
	case ProviderOpenAI:
		setIf(&cfg.OpenAI.APIKey, s.APIKey)
		setIf(&cfg.OpenAI.Model, s.Model)
		setIf(&cfg.OpenAI.BaseURL, s.BaseURL)
	case ProviderGemini:
		setIf(&cfg.Gemini.APIKey, s.APIKey)
		setIf(&cfg.Gemini.Model, s.Model)
	case ProviderOllama:
		setIf(&cfg.Ollama.Model, s.Model)
		setIf(&cfg.Ollama.BaseURL, s.BaseURL)
	}
	return cfg
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini, then OpenAI, then Anthropic) and returns a Config for the first
// provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Enabled reports whether a provider should be built at all.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}

// Validate checks that the selected provider has its required settings.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("assistant.api_key is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("assistant.api_key is required for the openai provider")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("assistant.api_key is required for the gemini provider")
		}
	case ProviderOllama:
		if c.Ollama.Model == "" {
			return fmt.Errorf("assistant.model is required for the ollama provider")
		}
	case ProviderMock, ProviderNone, "":
		// Nothing to check.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
