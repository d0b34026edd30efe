// Package assistant answers learner questions about digital skills. It asks
// an LLM grounded on a small embedded knowledge base and falls back to canned
// replies when no model is configured or the call fails.
package assistant

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/llm"
)

// Source says where a reply came from.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceKeyword  Source = "keyword"
	SourceFallback Source = "fallback"
	SourceError    Source = "error"
)

// Reply is an answer plus its origin.
type Reply struct {
	Text   string
	Source Source
}

// Question is one learner message.
type Question struct {
	UserID  string
	Message string

	// History holds this learner's earlier exchanges, oldest first. Only the
	// most recent few are sent to the model.
	History []Exchange
}

// Exchange is a past message and the reply it got.
type Exchange struct {
	Message string
	Reply   string
}

// DefaultHelp lists what the assistant can talk about.
const DefaultHelp = "I can help you with digital literacy, cybersecurity, passwords, and web fundamentals. What would you like to know?"

// ErrorReply is shown when the request could not be processed at all.
const ErrorReply = "I'm sorry, I'm having trouble processing your request right now. Please try again later."

// keywordReplies are checked in order against the lowercased message.
var keywordReplies = []struct {
	keyword string
	reply   string
}{
	{"digital literacy", "Digital literacy refers to the ability to find, evaluate, utilize, share, and create content using digital devices and the internet."},
	{"password", "A strong password should include uppercase, lowercase, numbers, and special characters. Avoid common passwords like '123456' or 'password'."},
	{"https", "HTTPS stands for HyperText Transfer Protocol Secure. It's the secure version of HTTP that encrypts data for security."},
	{"cybersecurity", "Cybersecurity is the practice of protecting systems, networks, and programs from digital attacks."},
}

var fallbackReplies = []string{
	"I'm here to help you with digital skills! What would you like to know?",
	"Welcome to the Digital Skills Assessment Platform! How can I assist you today?",
	"I can help you learn about digital literacy, online safety, and technology skills. What's on your mind?",
	"Feel free to ask me about digital skills, internet safety, or technology topics!",
	"I'm your digital skills assistant. What would you like to learn about today?",
}

const systemPrompt = `You are a friendly digital skills tutor for beginners.
Answer the learner's question in 1-4 short sentences of plain text.
Reply in the same language the learner wrote in (English or Hindi).
Prefer the facts in the reference notes below. If the question is unrelated to
digital skills, internet safety or technology, say briefly what you can help with.`

// Assistant answers chat messages. A nil provider means canned replies only.
type Assistant struct {
	provider  llm.Provider
	sections  []Section
	log       *zap.Logger
	pick      func(n int) int
	maxTokens int
	topK      int
	recent    int
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithLogger sets the logger used for fallbacks and provider failures.
func WithLogger(log *zap.Logger) Option {
	return func(a *Assistant) { a.log = log }
}

// WithKnowledge replaces the embedded knowledge base.
func WithKnowledge(doc string) Option {
	return func(a *Assistant) { a.sections = ParseKnowledge(doc) }
}

// WithPicker replaces the random choice of fallback reply.
func WithPicker(pick func(n int) int) Option {
	return func(a *Assistant) { a.pick = pick }
}

// New creates an assistant. provider may be nil.
func New(provider llm.Provider, opts ...Option) *Assistant {
	a := &Assistant{
		provider:  provider,
		sections:  ParseKnowledge(knowledgeDoc),
		log:       zap.NewNop(),
		pick:      rand.IntN,
		maxTokens: 400,
		topK:      3,
		recent:    3,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// HasModel reports whether an LLM backs this assistant.
func (a *Assistant) HasModel() bool {
	return a.provider != nil
}

// Answer replies to q. It never returns an empty reply.
func (a *Assistant) Answer(ctx context.Context, q Question) Reply {
	if err := ctx.Err(); err != nil {
		return Reply{Text: ErrorReply, Source: SourceError}
	}

	message := strings.TrimSpace(q.Message)
	if message == "" {
		return Reply{Text: DefaultHelp, Source: SourceFallback}
	}

	if a.provider != nil {
		text, err := a.ask(ctx, q.UserID, message, q.History)
		if err == nil {
			return Reply{Text: text, Source: SourceLLM}
		}
		a.log.Warn("assistant model failed, using canned reply",
			zap.String("user_id", q.UserID), zap.Error(err))
	}

	if r, ok := keywordReply(message); ok {
		return Reply{Text: r, Source: SourceKeyword}
	}
	return Reply{Text: fallbackReplies[a.pick(len(fallbackReplies))], Source: SourceFallback}
}

func (a *Assistant) ask(ctx context.Context, userID, message string, history []Exchange) (string, error) {
	ctx = llm.WithCaller(ctx, llm.Caller{Purpose: "chat", UserID: userID})

	req := llm.ChatRequest{
		System:      a.buildSystemPrompt(message),
		History:     a.turns(history),
		Message:     message,
		MaxTokens:   a.maxTokens,
		Temperature: 0.3,
	}
	reply, err := a.provider.Chat(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat reply: %w", err)
	}
	if reply.Truncated {
		a.log.Debug("chat reply cut at max tokens", zap.Int("max_tokens", a.maxTokens))
	}
	return reply.Text, nil
}

// turns flattens the most recent exchanges into model turns.
func (a *Assistant) turns(history []Exchange) []llm.Turn {
	history = history[max(len(history)-a.recent, 0):]
	out := make([]llm.Turn, 0, 2*len(history))
	for _, e := range history {
		out = append(out,
			llm.Turn{Role: llm.RoleLearner, Text: e.Message},
			llm.Turn{Role: llm.RoleTutor, Text: e.Reply})
	}
	return out
}

func (a *Assistant) buildSystemPrompt(message string) string {
	notes := Retrieve(a.sections, message, a.topK)
	if len(notes) == 0 {
		return systemPrompt
	}
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nReference notes:\n")
	for _, s := range notes {
		fmt.Fprintf(&b, "\n### %s\n%s\n", s.Title, s.Body)
	}
	return b.String()
}

func keywordReply(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, kr := range keywordReplies {
		if strings.Contains(lower, kr.keyword) {
			return kr.reply, true
		}
	}
	return "", false
}
