package horizon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound matches any *Error with HTTP status 404.
	ErrNotFound = errors.New("horizon: resource not found")
	// ErrRateLimited matches any *Error with HTTP status 429.
	ErrRateLimited = errors.New("horizon: rate limited")
)

// Problem is the RFC 7807 body Horizon returns on failure.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

// Error is a non-200 response from Horizon.
type Error struct {
	StatusCode int
	URL        string
	Problem    Problem
}

func newError(status int, url string, body []byte) *Error {
	e := &Error{StatusCode: status, URL: url}
	if err := json.Unmarshal(body, &e.Problem); err != nil || e.Problem.Title == "" {
		e.Problem = Problem{Status: status, Title: http.StatusText(status), Detail: truncate(string(body), 256)}
	}
	return e
}

func (e *Error) Error() string {
	msg := e.Problem.Title
	if e.Problem.Detail != "" {
		msg += ": " + e.Problem.Detail
	}
	return fmt.Sprintf("HTTP %d from %s: %s", e.StatusCode, e.URL, msg)
}

// Is classifies by status code so callers can use errors.Is(err, ErrRateLimited).
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// IsRateLimited reports whether err is a 429 from Horizon. It is the
// retry predicate for backoff policies wrapping Horizon calls.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
