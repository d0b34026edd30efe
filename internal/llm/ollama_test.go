package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewOllamaProvider(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		p, err := NewOllamaProvider(OllamaConfig{Model: "llama3"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "llama3" {
			t.Errorf("model = %q, want %q", p.ModelID(), "llama3")
		}
	})

	t.Run("empty model", func(t *testing.T) {
		if _, err := NewOllamaProvider(OllamaConfig{}); err == nil {
			t.Fatal("expected error for empty model")
		}
	})

	t.Run("model tag pass-through", func(t *testing.T) {
		p, err := NewOllamaProvider(OllamaConfig{Model: "llama3.1:8b"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ModelID() != "llama3.1:8b" {
			t.Errorf("model = %q, want %q", p.ModelID(), "llama3.1:8b")
		}
	})
}

func TestOllamaProvider_Chat(t *testing.T) {
	var gotPath string
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "chatcmpl-local",
			"model": "llama3",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": "Use a long passphrase."}, "finish_reason": "stop"},
			},
			"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 4, "total_tokens": 16},
		})
	}))
	t.Cleanup(server.Close)

	p, err := NewOllamaProvider(OllamaConfig{Model: "llama3", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reply, err := p.Chat(context.Background(), ChatRequest{Message: "password tips?", MaxTokens: 64})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if gotPath != "/v1/chat/completions" {
		t.Errorf("path = %q, want /v1/chat/completions", gotPath)
	}
	if body["max_tokens"] != float64(64) {
		t.Errorf("max_tokens = %v, want 64", body["max_tokens"])
	}
	if _, ok := body["max_completion_tokens"]; ok {
		t.Error("max_completion_tokens should not be sent to ollama")
	}
	if reply.Text != "Use a long passphrase." || reply.Usage.InputTokens != 12 {
		t.Errorf("reply = %+v", reply)
	}
}

func TestOllamaProvider_ErrorsNameOllama(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "model \"llama9\" not found"}})
	}))
	t.Cleanup(server.Close)

	p, err := NewOllamaProvider(OllamaConfig{Model: "llama9", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = p.Chat(context.Background(), ChatRequest{Message: "hi", MaxTokens: 16})
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindRejected || e.Provider != ProviderOllama || e.Status != http.StatusNotFound {
		t.Fatalf("unexpected error: %#v", err)
	}
}
