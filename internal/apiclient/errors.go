package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound matches any *APIError with status 404.
var ErrNotFound = errors.New("resource not found")

const maxErrorBody = 512

// APIError is a non-2xx backend response, or a 2xx envelope carrying an error.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %s", e.Status)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Temporary reports whether the backend may succeed on a later attempt.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError ||
		e.StatusCode == http.StatusTooManyRequests
}

// IsClientError reports 4xx responses.
func IsClientError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		apiErr.StatusCode >= http.StatusBadRequest &&
		apiErr.StatusCode < http.StatusInternalServerError
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	e := &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Message:    errorMessage(body),
	}
	e.Body = strings.TrimSpace(string(body))
	if len(e.Body) > maxErrorBody {
		e.Body = e.Body[:maxErrorBody]
	}
	return e
}

// errorMessage pulls a human message from the usual backend error keys.
func errorMessage(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"error", "detail", "message"} {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
		if string(raw) != "null" {
			return string(raw)
		}
	}
	return ""
}
