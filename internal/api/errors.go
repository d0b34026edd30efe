package api

import (
	"errors"
	"fmt"
)

// ErrIncompatibleServer means the service reports an API major version this
// client does not speak.
var ErrIncompatibleServer = errors.New("incompatible server version")

// StatusError is a non-2xx response from the service.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the service.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == 404
}

// InvalidPayloadError means a 2xx response body did not have the expected shape.
type InvalidPayloadError struct {
	Path string
	Err  error
}

func (e *InvalidPayloadError) Error() string {
	return fmt.Sprintf("invalid payload from %s: %v", e.Path, e.Err)
}

func (e *InvalidPayloadError) Unwrap() error {
	return e.Err
}
