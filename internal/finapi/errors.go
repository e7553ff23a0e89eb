package finapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ConnectionError reports that the analytics API could not be reached at all.
// Fetch clients swallow it and serve fallback data.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return "API server is unreachable"
	}
	return "API server is unreachable: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// APIError is a structured failure reported by the analytics API. Its Message
// is meant for display next to the affected widget.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error { return e.Err }

type errorBody struct {
	Message string `json:"message"`
	Title   string `json:"title"`
}

// newAPIError builds an APIError from a non-2xx response body, preferring the
// body's message, then its title.
func newAPIError(status int, body []byte) *APIError {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if msg := strings.TrimSpace(parsed.Message); msg != "" {
			return &APIError{Status: status, Message: msg}
		}
		if title := strings.TrimSpace(parsed.Title); title != "" {
			return &APIError{Status: status, Message: title}
		}
	}
	return &APIError{Status: status, Message: fmt.Sprintf("API request failed with status %d", status)}
}
