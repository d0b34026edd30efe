package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/skillcheck/internal/store"
)

type recordedEvents struct {
	events []store.LLMRequestEventData
	err    error
}

func (r *recordedEvents) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLogging_RecordsTranscriptAndCaller(t *testing.T) {
	mock := NewMockProvider(MockReply{Text: "Never share one-time codes.", Usage: Usage{InputTokens: 12, OutputTokens: 3}})
	rec := &recordedEvents{}
	core, logs := observer.New(zapcore.InfoLevel)

	p := WithLogging(mock, "mock", rec, zap.New(core))
	ctx := WithCaller(context.Background(), Caller{Purpose: "chat", UserID: "user_3"})
	_, err := p.Chat(ctx, ChatRequest{
		System:  "be brief",
		History: []Turn{{Role: RoleLearner, Text: "hi"}, {Role: RoleTutor, Text: "Hello!"}},
		Message: "what is phishing",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(rec.events))
	}
	e := rec.events[0]
	if !e.Success || e.Purpose != "chat" || e.UserID != "user_3" || e.Provider != "mock" || e.InputTokens != 12 {
		t.Errorf("unexpected event: %+v", e)
	}
	want := "[system]\nbe brief\n\n[user]\nhi\n\n[assistant]\nHello!\n\n[user]\nwhat is phishing\n"
	if e.RequestBody != want {
		t.Errorf("request body:\n%s\nwant:\n%s", e.RequestBody, want)
	}
	if e.ResponseBody != "Never share one-time codes." {
		t.Errorf("response body = %q", e.ResponseBody)
	}

	entries := logs.FilterMessage("chat call").All()
	if len(entries) != 1 {
		t.Fatalf("expected one info log line, got %v", logs.All())
	}
	fields := entries[0].ContextMap()
	if fields["user_id"] != "user_3" || fields["history_turns"] != int64(2) {
		t.Errorf("fields = %v", fields)
	}
}

func TestLogging_RecordsFailure(t *testing.T) {
	mock := NewMockProvider(MockReply{Err: &Error{Kind: KindUnavailable, Provider: "ollama", Err: errors.New("connection refused")}})
	rec := &recordedEvents{}
	core, logs := observer.New(zapcore.WarnLevel)

	p := WithLogging(mock, "ollama", rec, zap.New(core))
	if _, err := p.Chat(context.Background(), ChatRequest{Message: "hi"}); err == nil {
		t.Fatal("expected error")
	}
	if len(rec.events) != 1 || rec.events[0].Success {
		t.Fatalf("expected one failed event, got %+v", rec.events)
	}
	e := rec.events[0]
	if !strings.Contains(e.ErrorMessage, "connection refused") {
		t.Errorf("error message = %q", e.ErrorMessage)
	}
	if e.Purpose != "unknown" || e.UserID != "anonymous" {
		t.Errorf("caller = %q/%q", e.Purpose, e.UserID)
	}
	if logs.FilterMessage("chat call failed").Len() != 1 {
		t.Errorf("expected one warn log line, got %v", logs.All())
	}
}

func TestLogging_WarnsOnTruncatedReply(t *testing.T) {
	inner := providerFunc(func(context.Context, ChatRequest) (*Reply, error) {
		return &Reply{Text: "A strong password has", Truncated: true}, nil
	})
	core, logs := observer.New(zapcore.WarnLevel)
	p := WithLogging(inner, "openai", nil, zap.New(core))

	if _, err := p.Chat(context.Background(), ChatRequest{Message: "password?", MaxTokens: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries := logs.FilterMessage("chat reply truncated").All()
	if len(entries) != 1 || entries[0].ContextMap()["max_tokens"] != int64(5) {
		t.Errorf("logs = %v", logs.All())
	}
}

func TestLogging_EventErrorDoesNotFailChat(t *testing.T) {
	mock := NewMockProvider(MockReply{Text: "ok"})
	p := WithLogging(mock, "mock", &recordedEvents{err: errors.New("disk full")}, nil)

	if _, err := p.Chat(context.Background(), ChatRequest{Message: "hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("model = %q", p.ModelID())
	}
}
