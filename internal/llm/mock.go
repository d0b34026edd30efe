package llm

import (
	"context"
	"strings"
	"sync"
)

// MockReply is a canned answer for MockProvider.
type MockReply struct {
	Text  string
	Usage Usage
	Err   error
}

// MockProvider replies from a FIFO queue and records every request. Once the
// queue is drained it uses the fallback, or fails with KindUnavailable when
// there is none.
type MockProvider struct {
	mu       sync.Mutex
	queue    []MockReply
	fallback func(ChatRequest) MockReply
	Calls    []ChatRequest
}

// NewMockProvider returns a mock that gives replies in order.
func NewMockProvider(replies ...MockReply) *MockProvider {
	return &MockProvider{queue: replies}
}

// NewDemoProvider returns a mock that answers every message from the
// reference notes in the system prompt. It backs provider "mock".
func NewDemoProvider() *MockProvider {
	return NewMockProvider().WithFallback(demoReply)
}

// WithFallback sets the reply used once the queue is empty.
func (m *MockProvider) WithFallback(f func(ChatRequest) MockReply) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = f
	return m
}

func (m *MockProvider) Chat(_ context.Context, req ChatRequest) (*Reply, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	var next MockReply
	switch {
	case len(m.queue) > 0:
		next = m.queue[0]
		m.queue = m.queue[1:]
	case m.fallback != nil:
		next = m.fallback(req)
	default:
		m.mu.Unlock()
		return nil, &Error{Kind: KindUnavailable, Provider: ProviderMock}
	}
	m.mu.Unlock()

	if next.Err != nil {
		return nil, next.Err
	}
	return finish(ProviderMock, &Reply{Text: next.Text, Model: "mock", Usage: next.Usage})
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// Push appends a reply to the queue.
func (m *MockProvider) Push(r MockReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, r)
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// DemoGreeting is the demo reply when the prompt carries no reference notes.
const DemoGreeting = "This is a demo tutor without a language model. Ask me about passwords, phishing, HTTPS or other digital skills."

// demoReply quotes the first "### " reference note in the system prompt.
func demoReply(req ChatRequest) MockReply {
	text := DemoGreeting
	if _, notes, ok := strings.Cut(req.System, "\n### "); ok {
		if _, body, ok := strings.Cut(notes, "\n"); ok {
			body, _, _ = strings.Cut(body, "\n### ")
			if body = strings.TrimSpace(body); body != "" {
				text = body
			}
		}
	}
	return MockReply{
		Text: text,
		Usage: Usage{
			InputTokens:  len(strings.Fields(req.System)) + len(strings.Fields(req.Message)),
			OutputTokens: len(strings.Fields(text)),
		},
	}
}
