package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMockProvider_RepliesInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockReply{Text: "first", Usage: Usage{InputTokens: 10, OutputTokens: 5}},
		MockReply{Text: " second "},
	)

	r1, err := mock.Chat(context.Background(), ChatRequest{Message: "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r1.Text != "first" || r1.Usage.Total() != 15 || r1.Model != "mock" {
		t.Fatalf("reply = %+v", r1)
	}

	r2, err := mock.Chat(context.Background(), ChatRequest{Message: "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r2.Text != "second" {
		t.Fatalf("text = %q, want trimmed", r2.Text)
	}
	if mock.CallCount() != 2 || mock.Calls[1].Message != "b" {
		t.Fatalf("calls = %+v", mock.Calls)
	}
}

func TestMockProvider_DrainedQueue(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Chat(context.Background(), ChatRequest{Message: "hi"})
	if !IsKind(err, KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}

	mock.WithFallback(func(req ChatRequest) MockReply { return MockReply{Text: "echo: " + req.Message} })
	mock.Push(MockReply{Text: "queued"})
	for _, want := range []string{"queued", "echo: hi", "echo: hi"} {
		r, err := mock.Chat(context.Background(), ChatRequest{Message: "hi"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r.Text != want {
			t.Errorf("text = %q, want %q", r.Text, want)
		}
	}
}

func TestMockProvider_ConfiguredErrorAndBlankReply(t *testing.T) {
	mock := NewMockProvider(
		MockReply{Err: &Error{Kind: KindRateLimited, Provider: "mock"}},
		MockReply{Text: "   "},
	)
	if _, err := mock.Chat(context.Background(), ChatRequest{}); !IsKind(err, KindRateLimited) {
		t.Fatalf("expected rate limited, got %v", err)
	}
	if _, err := mock.Chat(context.Background(), ChatRequest{}); !IsKind(err, KindEmpty) {
		t.Fatalf("expected empty reply, got %v", err)
	}
}

func TestDemoProvider(t *testing.T) {
	demo := NewDemoProvider()

	r, err := demo.Chat(context.Background(), ChatRequest{
		System:  "You are a tutor.\n\nReference notes:\n\n### Passwords\nUse a long passphrase.\n\n### VPN\nA VPN encrypts traffic.\n",
		Message: "password tips",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Text != "Use a long passphrase." {
		t.Errorf("text = %q", r.Text)
	}
	if r.Usage.OutputTokens != 4 || r.Usage.InputTokens == 0 {
		t.Errorf("usage = %+v", r.Usage)
	}

	r, err = demo.Chat(context.Background(), ChatRequest{System: "You are a tutor.", Message: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Text != DemoGreeting {
		t.Errorf("text = %q", r.Text)
	}
}

func TestChatRequest_Turns(t *testing.T) {
	req := ChatRequest{History: []Turn{{Role: RoleLearner, Text: "q1"}, {Role: RoleTutor, Text: "a1"}}, Message: "q2"}
	turns := req.Turns()
	if len(turns) != 3 || turns[2] != (Turn{Role: RoleLearner, Text: "q2"}) {
		t.Fatalf("turns = %+v", turns)
	}
	if len(req.History) != 2 {
		t.Fatal("Turns must not grow History")
	}
}

func TestCallerContext(t *testing.T) {
	c := CallerFrom(context.Background())
	if c.Purpose != "unknown" || c.UserID != "anonymous" {
		t.Fatalf("defaults = %+v", c)
	}

	ctx := WithCaller(context.Background(), Caller{Purpose: "chat", UserID: "user_4"})
	if c := CallerFrom(ctx); c.Purpose != "chat" || c.UserID != "user_4" {
		t.Fatalf("caller = %+v", c)
	}
}

func TestError(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&Error{Kind: KindUnavailable, Provider: "ollama", Err: cause})
	if err.Error() != "ollama: unavailable: connection refused" {
		t.Errorf("message = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause")
	}

	err = statusError("openai", 401, cause)
	if !IsKind(err, KindRejected) || !strings.Contains(err.Error(), "(status 401)") {
		t.Errorf("unexpected: %v", err)
	}
	if !IsKind(statusError("openai", 429, cause), KindRateLimited) {
		t.Error("429 should be rate limited")
	}
	if !IsKind(statusError("openai", 0, cause), KindUnavailable) {
		t.Error("no status should be unavailable")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"gemini without key", Config{Provider: "gemini"}, true},
		{"ollama needs no key", Config{Provider: "ollama", Ollama: OllamaConfig{Model: "llama3"}}, false},
		{"ollama without model", Config{Provider: "ollama"}, true},
		{"none is valid", Config{Provider: "none"}, false},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "unknown"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigFromSettings(t *testing.T) {
	t.Run("ollama overrides", func(t *testing.T) {
		cfg := ConfigFromSettings(Settings{Provider: "ollama", Model: "llama3.1", BaseURL: "http://gpu-box:11434/v1", MaxAttempts: 4})
		if cfg.Provider != ProviderOllama {
			t.Fatalf("provider = %q", cfg.Provider)
		}
		if cfg.Ollama.Model != "llama3.1" || cfg.Ollama.BaseURL != "http://gpu-box:11434/v1" {
			t.Errorf("unexpected ollama config: %+v", cfg.Ollama)
		}
		if cfg.Retry.MaxAttempts != 4 {
			t.Errorf("max attempts = %d, want 4", cfg.Retry.MaxAttempts)
		}
	})

	t.Run("openai keeps default model", func(t *testing.T) {
		cfg := ConfigFromSettings(Settings{Provider: "openai", APIKey: "sk-test"})
		if cfg.OpenAI.Model != "gpt-4o-mini" || cfg.OpenAI.APIKey != "sk-test" {
			t.Errorf("unexpected openai config: %+v", cfg.OpenAI)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("validate: %v", err)
		}
	})

	t.Run("empty is disabled", func(t *testing.T) {
		if ConfigFromSettings(Settings{}).Enabled() {
			t.Error("expected disabled config")
		}
	})

	t.Run("auto without keys is disabled", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("OPENAI_API_KEY", "")
		t.Setenv("ANTHROPIC_API_KEY", "")
		cfg := ConfigFromSettings(Settings{Provider: "auto"})
		if cfg.Enabled() {
			t.Errorf("expected disabled, got %q", cfg.Provider)
		}
	})

	t.Run("auto discovers key", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("OPENAI_API_KEY", "sk-env")
		t.Setenv("ANTHROPIC_API_KEY", "")
		cfg := ConfigFromSettings(Settings{Provider: "auto", Timeout: 5 * time.Second})
		if cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "sk-env" {
			t.Errorf("unexpected discovered config: %+v", cfg)
		}
		if cfg.Retry.AttemptTimeout != 5*time.Second {
			t.Errorf("attempt timeout = %v, want 5s", cfg.Retry.AttemptTimeout)
		}
	})
}

func TestNewProvider_Disabled(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: "none"}, nil, nil)
	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: "anthropic"}, nil, nil); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestNewProvider_MockAnswersEveryMessage(t *testing.T) {
	rec := &recordedEvents{}
	p, err := NewProvider(context.Background(), ConfigFromSettings(Settings{Provider: "mock"}), rec, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("model = %q, want mock", p.ModelID())
	}

	ctx := WithCaller(context.Background(), Caller{Purpose: "chat", UserID: "user_1"})
	for _, msg := range []string{"hello", "what is a VPN?", "thanks"} {
		r, err := p.Chat(ctx, ChatRequest{System: "You are a tutor.", Message: msg})
		if err != nil {
			t.Fatalf("chat %q: %v", msg, err)
		}
		if r.Text == "" {
			t.Errorf("empty reply for %q", msg)
		}
	}
	if len(rec.events) != 3 || rec.events[2].UserID != "user_1" || rec.events[2].Provider != "mock" {
		t.Errorf("events = %+v", rec.events)
	}
}
