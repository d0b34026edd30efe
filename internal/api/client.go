// Package api is the HTTP client for the assessment service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/zap"
	"golang.org/x/mod/semver"

	"github.com/abhisek/skillcheck/internal/i18n"
	"github.com/abhisek/skillcheck/internal/quiz"
)

// APIMajor is the service API major version this client speaks.
const APIMajor = "v1"

// maxBody caps how much of a response body is read.
const maxBody = 4 << 20

// Client talks to the assessment service. Calls are never retried.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger attaches a logger for request failures.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client for baseURL with a per-request timeout.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the service root this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchQuestions returns the question list in lang. Every question is
// structurally validated; a single bad question fails the whole fetch.
func (c *Client) FetchQuestions(ctx context.Context, lang i18n.Lang) ([]quiz.Question, error) {
	path := "/quiz/questions/" + url.PathEscape(string(lang))
	raw, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, &InvalidPayloadError{Path: path, Err: err}
	}
	if err := validateQuestionSet(doc); err != nil {
		return nil, &InvalidPayloadError{Path: path, Err: err}
	}

	var set QuestionSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, &InvalidPayloadError{Path: path, Err: err}
	}
	for _, q := range set.Questions {
		if err := q.Validate(); err != nil {
			return nil, &InvalidPayloadError{Path: path, Err: err}
		}
	}
	return set.Questions, nil
}

// SubmitProfile registers a profile and returns the user id the service assigned.
func (c *Client) SubmitProfile(ctx context.Context, p Profile) (string, error) {
	var resp ProfileResponse
	if err := c.doJSON(ctx, http.MethodPost, "/profile", p, &resp); err != nil {
		return "", err
	}
	if resp.UserID == "" {
		return "", &InvalidPayloadError{Path: "/profile", Err: fmt.Errorf("missing user_id")}
	}
	return resp.UserID, nil
}

// GetProfile fetches a stored profile.
func (c *Client) GetProfile(ctx context.Context, userID string) (*UserProfile, error) {
	var resp UserProfile
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitResults sends a finished attempt for grading.
func (c *Client) SubmitResults(ctx context.Context, sub Submission) (*Result, error) {
	var res Result
	if err := c.doJSON(ctx, http.MethodPost, "/quiz/submit", sub, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Results fetches the latest stored result for a user.
func (c *Client) Results(ctx context.Context, userID string) (*Result, error) {
	var res Result
	if err := c.doJSON(ctx, http.MethodGet, "/quiz/results/"+url.PathEscape(userID), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Chat sends a message to the assistant. An empty userID is sent as "anonymous".
func (c *Client) Chat(ctx context.Context, userID, message string) (*ChatReply, error) {
	if userID == "" {
		userID = "anonymous"
	}
	var reply ChatReply
	if err := c.doJSON(ctx, http.MethodPost, "/chat", ChatRequest{Message: message, UserID: userID}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// ChatHistory returns a user's past exchanges, oldest first.
func (c *Client) ChatHistory(ctx context.Context, userID string) ([]ChatTurn, error) {
	var resp struct {
		History []ChatTurn `json:"history"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/chat/history/"+url.PathEscape(userID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// Health checks that the service is up and speaks a compatible API version.
// Services that do not report a version are assumed compatible.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return nil, err
	}
	if h.Version == "" {
		return &h, nil
	}
	v := h.Version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return &h, &InvalidPayloadError{Path: "/health", Err: fmt.Errorf("bad version %q", h.Version)}
	}
	if semver.Major(v) != APIMajor {
		return &h, fmt.Errorf("%w: server %s, client %s", ErrIncompatibleServer, v, APIMajor)
	}
	return &h, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	raw, err := c.do(ctx, method, path, in)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &InvalidPayloadError{Path: path, Err: err}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api request failed",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}

	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(raw, &detail) == nil {
			se.Detail = detail.Detail
		}
		c.log.Warn("api error status",
			zap.String("method", method), zap.String("path", path),
			zap.Int("status", resp.StatusCode), zap.String("detail", se.Detail))
		return nil, se
	}
	return raw, nil
}
