package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Kind classifies a failed chat call.
type Kind int

const (
	// KindUnavailable covers network failures and 5xx answers.
	KindUnavailable Kind = iota
	KindRateLimited
	// KindRejected is any other 4xx: a bad key, an unknown model, an
	// oversized prompt. Repeating the call will not help.
	KindRejected
	// KindEmpty means the model answered without any text.
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindRejected:
		return "rejected"
	case KindEmpty:
		return "empty reply"
	default:
		return "unavailable"
	}
}

// Error is returned by every provider for a failed call.
type Error struct {
	Kind     Kind
	Provider string

	// Status is the HTTP status, 0 when the call never got an answer.
	Status int

	// RetryAfter is the server's requested pause, if it sent one.
	RetryAfter time.Duration

	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// statusError classifies an SDK failure by its HTTP status.
func statusError(provider string, status int, err error) *Error {
	e := &Error{Kind: KindUnavailable, Provider: provider, Status: status, Err: err}
	switch {
	case status == http.StatusTooManyRequests:
		e.Kind = KindRateLimited
	case status >= 400 && status < 500:
		e.Kind = KindRejected
	}
	return e
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
