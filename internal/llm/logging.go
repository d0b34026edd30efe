package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/store"
)

// EventRecorder persists one row per chat call. store.EventRepo satisfies it.
type EventRecorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// WithLogging wraps p so every call is written as a structured log line and,
// when events is non-nil, stored as an event with its transcript.
func WithLogging(p Provider, provider string, events EventRecorder, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &logged{inner: p, provider: provider, events: events, log: log}
}

type logged struct {
	inner    Provider
	provider string
	events   EventRecorder
	log      *zap.Logger
}

func (l *logged) Chat(ctx context.Context, req ChatRequest) (*Reply, error) {
	caller := CallerFrom(ctx)
	start := time.Now()
	reply, err := l.inner.Chat(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     caller.Purpose,
		UserID:      caller.UserID,
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if reply != nil {
		data.InputTokens = reply.Usage.InputTokens
		data.OutputTokens = reply.Usage.OutputTokens
		if reply.Model != "" {
			data.Model = reply.Model
		}
		data.ResponseBody = reply.Text
	}

	fields := []zap.Field{
		zap.String("provider", data.Provider),
		zap.String("model", data.Model),
		zap.String("purpose", data.Purpose),
		zap.String("user_id", data.UserID),
		zap.Int("history_turns", len(req.History)),
		zap.Int64("latency_ms", data.LatencyMs),
		zap.Int("input_tokens", data.InputTokens),
		zap.Int("output_tokens", data.OutputTokens),
	}
	switch {
	case err != nil:
		data.ErrorMessage = err.Error()
		l.log.Warn("chat call failed", append(fields, zap.Error(err))...)
	case reply.Truncated:
		l.log.Warn("chat reply truncated", append(fields, zap.Int("max_tokens", req.MaxTokens))...)
	default:
		l.log.Info("chat call", fields...)
	}

	if l.events != nil {
		// The learner still gets the reply when the event cannot be stored.
		if recErr := l.events.AppendLLMRequest(ctx, data); recErr != nil {
			l.log.Warn("record chat event", zap.Error(recErr))
		}
	}
	return reply, err
}

func (l *logged) ModelID() string {
	return l.inner.ModelID()
}

// transcript renders the request the way `skillcheck llm view` shows it.
func transcript(req ChatRequest) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, t := range req.Turns() {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", t.Role, t.Text)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
