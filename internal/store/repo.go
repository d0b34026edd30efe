package store

import (
	"context"
	"encoding/json"
	"time"
)

// Preference keys persisted across runs.
const (
	PrefLanguage = "selectedLanguage"
	PrefUserID   = "currentUserId"
)

// PrefRepo is a small key/value store for client preferences.
type PrefRepo interface {
	// Get returns the stored value, or def when the key was never set.
	Get(ctx context.Context, key, def string) (string, error)

	Set(ctx context.Context, key, value string) error
}

// Attempt is one completed quiz run as remembered by the client.
type Attempt struct {
	ID         string
	UserID     string
	Lang       string
	Score      int
	Total      int
	Percentage int
	Elapsed    time.Duration
	Answers    json.RawMessage
	Result     json.RawMessage
	CreatedAt  time.Time
}

// AttemptRepo keeps the local attempt history.
type AttemptRepo interface {
	Save(ctx context.Context, a *Attempt) error

	// Recent returns up to limit attempts, newest first. limit <= 0 means all.
	Recent(ctx context.Context, limit int) ([]Attempt, error)
}

// Profile is a learner profile held by the assessment service.
type Profile struct {
	UserID     string
	Name       string
	Age        int
	Goal       string
	Experience string
	CreatedAt  time.Time
}

// ProfileRepo stores profiles server side.
type ProfileRepo interface {
	Create(ctx context.Context, p *Profile) error

	// Get returns ErrNotFound for unknown users.
	Get(ctx context.Context, userID string) (*Profile, error)
}

// ResultRepo keeps the latest graded result per user as an opaque payload.
type ResultRepo interface {
	Put(ctx context.Context, userID string, payload json.RawMessage) error

	// Latest returns ErrNotFound when the user has no result yet.
	Latest(ctx context.Context, userID string) (json.RawMessage, error)
}

// ChatEntry is one exchange with the assistant.
type ChatEntry struct {
	ID          int64
	UserID      string
	UserMessage string
	BotResponse string
	Source      string
	CreatedAt   time.Time
}

// ChatRepo stores chat history per user.
type ChatRepo interface {
	Append(ctx context.Context, e *ChatEntry) error

	// History returns the user's entries oldest first.
	History(ctx context.Context, userID string) ([]ChatEntry, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	UserID       string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo records LLM calls made by the chat assistant.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns the newest events first.
	QueryLLMEvents(ctx context.Context, limit int) ([]LLMEvent, error)

	// GetLLMEvent returns ErrNotFound for an unknown id.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error)

	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
