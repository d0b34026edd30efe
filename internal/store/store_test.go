package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestOpen_FileDatabaseUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skillcheck.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestOpen_AddsUserIDToOldEventTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw: %v", err)
	}
	_, err = db.Exec(`CREATE TABLE llm_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT, provider TEXT NOT NULL, model TEXT NOT NULL,
		purpose TEXT NOT NULL, input_tokens INTEGER NOT NULL, output_tokens INTEGER NOT NULL,
		latency_ms INTEGER NOT NULL, success INTEGER NOT NULL, error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '', response_body TEXT NOT NULL DEFAULT '', created_at INTEGER NOT NULL)`)
	if err != nil {
		t.Fatalf("create old table: %v", err)
	}
	db.Close()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	err = s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "chat", UserID: "user_2", Success: true})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	list, err := s.EventRepo().QueryLLMEvents(ctx, 1)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(list) != 1 || list[0].UserID != "user_2" {
		t.Errorf("unexpected events: %+v", list)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestPrefs_DefaultAndOverwrite(t *testing.T) {
	s := openTestStore(t)
	repo := s.PrefRepo()
	ctx := context.Background()

	got, err := repo.Get(ctx, PrefLanguage, "en")
	if err != nil {
		t.Fatalf("get default: %v", err)
	}
	if got != "en" {
		t.Fatalf("default = %q, want en", got)
	}

	if err := repo.Set(ctx, PrefLanguage, "hi"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, PrefLanguage, "en"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := repo.Set(ctx, PrefUserID, "user_1"); err != nil {
		t.Fatalf("set user: %v", err)
	}

	got, _ = repo.Get(ctx, PrefLanguage, "xx")
	if got != "en" {
		t.Errorf("language = %q, want en", got)
	}
	got, _ = repo.Get(ctx, PrefUserID, "")
	if got != "user_1" {
		t.Errorf("user id = %q, want user_1", got)
	}
}

func TestAttempts_SaveAndRecent(t *testing.T) {
	s := openTestStore(t)
	repo := s.AttemptRepo()
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		a := &Attempt{
			UserID:     "user_1",
			Lang:       "en",
			Score:      i,
			Total:      5,
			Percentage: i * 20,
			Elapsed:    time.Duration(i) * time.Second,
			Answers:    json.RawMessage(`[{"question_id":1}]`),
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Save(ctx, a); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		if a.ID == "" {
			t.Fatal("expected generated attempt id")
		}
	}

	recent, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("len(recent) = %d, want 2", len(recent))
	}
	if recent[0].Score != 2 || recent[1].Score != 1 {
		t.Errorf("expected newest first, got scores %d, %d", recent[0].Score, recent[1].Score)
	}
	if recent[0].Elapsed != 2*time.Second {
		t.Errorf("elapsed = %v, want 2s", recent[0].Elapsed)
	}
	if !recent[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("created_at = %v", recent[0].CreatedAt)
	}
	if recent[0].Result != nil {
		t.Errorf("expected nil result, got %s", recent[0].Result)
	}

	all, err := repo.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("recent all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(all) = %d, want 3", len(all))
	}
}

func TestProfiles_CreateGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProfileRepo()
	ctx := context.Background()

	_, err := repo.Get(ctx, "user_missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	p := &Profile{UserID: "user_1", Name: "asha", Age: 25, Goal: "Improve digital skills", Experience: "Beginner"}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, p); err == nil {
		t.Fatal("expected duplicate user id to fail")
	}

	got, err := repo.Get(ctx, "user_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "asha" || got.Age != 25 || got.Experience != "Beginner" {
		t.Errorf("unexpected profile: %+v", got)
	}
}

func TestResults_PutLatest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.ProfileRepo().Create(ctx, &Profile{UserID: "user_1", Name: "a", Age: 1, Goal: "g", Experience: "e"}); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	repo := s.ResultRepo()

	if _, err := repo.Latest(ctx, "user_1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.Put(ctx, "user_1", json.RawMessage(`{"score":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Put(ctx, "user_1", json.RawMessage(`{"score":2}`)); err != nil {
		t.Fatalf("put again: %v", err)
	}
	got, err := repo.Latest(ctx, "user_1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if string(got) != `{"score":2}` {
		t.Errorf("latest = %s", got)
	}

	if err := repo.Put(ctx, "user_unknown", json.RawMessage(`{}`)); err == nil {
		t.Error("expected foreign key violation for unknown user")
	}
}

func TestChat_AppendHistory(t *testing.T) {
	s := openTestStore(t)
	repo := s.ChatRepo()
	ctx := context.Background()

	for _, msg := range []string{"hi", "what is https"} {
		e := &ChatEntry{UserID: "anonymous", UserMessage: msg, BotResponse: "ok", Source: "keyword"}
		if err := repo.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
		if e.ID == 0 {
			t.Error("expected id to be set")
		}
	}
	_ = repo.Append(ctx, &ChatEntry{UserID: "other", UserMessage: "x", BotResponse: "y", Source: "fallback"})

	hist, err := repo.History(ctx, "anonymous")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(hist))
	}
	if hist[0].UserMessage != "hi" || hist[1].UserMessage != "what is https" {
		t.Errorf("unexpected order: %+v", hist)
	}

	empty, err := repo.History(ctx, "nobody")
	if err != nil {
		t.Fatalf("history empty: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty history, got %d", len(empty))
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "llama3", Purpose: "chat", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true},
		{Provider: "openai", Model: "llama3", Purpose: "chat", UserID: "user_7", InputTokens: 20, OutputTokens: 0, LatencyMs: 300, Success: false, ErrorMessage: "down"},
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "chat", InputTokens: 7, OutputTokens: 3, LatencyMs: 50, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	list, err := repo.QueryLLMEvents(ctx, 2)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(list) != 2 || list[0].Model != "gemini-2.0-flash" {
		t.Fatalf("unexpected events: %+v", list)
	}

	e, err := repo.GetLLMEvent(ctx, list[1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e.Success || e.ErrorMessage != "down" || e.UserID != "user_7" {
		t.Errorf("unexpected event: %+v", e)
	}
	if _, err := repo.GetLLMEvent(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	usage, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("len(usage) = %d, want 2", len(usage))
	}
	if usage[0].Model != "llama3" || usage[0].Calls != 2 || usage[0].Failures != 1 || usage[0].InputTokens != 30 || usage[0].AvgLatencyMs != 200 {
		t.Errorf("unexpected llama3 usage: %+v", usage[0])
	}
}
