// Package llm talks to chat models on behalf of the learner assistant. Every
// backend speaks the same small contract: a system prompt and the
// conversation so far go in, a plain-text tutor reply comes out.
package llm

import (
	"context"
	"strings"
)

// Provider answers one chat turn.
type Provider interface {
	Chat(ctx context.Context, req ChatRequest) (*Reply, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Role says who spoke a turn.
type Role string

const (
	RoleLearner Role = "user"
	RoleTutor   Role = "assistant"
)

// Turn is one message of a conversation.
type Turn struct {
	Role Role
	Text string
}

// ChatRequest is a learner message plus everything the model needs to answer it.
type ChatRequest struct {
	System string

	// History holds earlier turns, oldest first.
	History []Turn

	// Message is the learner's new message.
	Message string

	MaxTokens   int
	Temperature float64
}

// Turns returns the history followed by the new message.
func (r ChatRequest) Turns() []Turn {
	turns := make([]Turn, 0, len(r.History)+1)
	turns = append(turns, r.History...)
	return append(turns, Turn{Role: RoleLearner, Text: r.Message})
}

// Reply is the tutor's answer.
type Reply struct {
	Text  string
	Model string
	Usage Usage

	// Truncated is set when the model stopped at MaxTokens. The text is kept.
	Truncated bool
}

// Usage tracks token consumption for a single call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// finish trims the reply and turns a blank answer into a KindEmpty error.
func finish(provider string, r *Reply) (*Reply, error) {
	r.Text = strings.TrimSpace(r.Text)
	if r.Text == "" {
		return nil, &Error{Kind: KindEmpty, Provider: provider}
	}
	return r, nil
}
