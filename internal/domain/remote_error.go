package domain

import (
	"fmt"
	"strings"
)

// RemoteError is returned by the resource gateway for any non-2xx response
// or transport failure. StatusCode is zero and Err non-nil when the request
// never produced a response.
type RemoteError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}

	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, body)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func (e *RemoteError) HasStatus(statuses ...int) bool {
	for _, status := range statuses {
		if e.StatusCode == status {
			return true
		}
	}
	return false
}

// BodyContainsAny reports whether the response body contains any of the
// given fragments, case-insensitively.
func (e *RemoteError) BodyContainsAny(fragments ...string) bool {
	body := strings.ToLower(e.Body)
	for _, fragment := range fragments {
		if strings.Contains(body, strings.ToLower(fragment)) {
			return true
		}
	}
	return false
}
