package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Result is the normalized outcome of a backend call: exactly one of Data or
// Error is meaningful.
type Result[T any] struct {
	Data  T
	Error error
}

// Unwrap returns Data, or Error when it is set.
func (r Result[T]) Unwrap() (T, error) {
	if r.Error != nil {
		var zero T
		return zero, r.Error
	}
	return r.Data, nil
}

func (r Result[T]) OK() bool { return r.Error == nil }

func failed[T any](err error) Result[T] {
	return Result[T]{Error: err}
}

// unwrapEnvelope returns the payload of a {"data": ..., "error": ...} body,
// or the body itself when it is not shaped like an envelope.
func unwrapEnvelope(status int, body []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed, nil
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return trimmed, nil //nolint:nilerr // not an object envelope, decode as-is
	}
	if !isEnvelope(env) {
		return trimmed, nil
	}

	if raw, ok := env["error"]; ok && !isNull(raw) {
		return nil, &APIError{
			StatusCode: status,
			Status:     http.StatusText(status),
			Message:    errorMessage(trimmed),
			Body:       string(raw),
		}
	}
	return env["data"], nil
}

func isEnvelope(env map[string]json.RawMessage) bool {
	if len(env) == 0 {
		return false
	}
	_, hasData := env["data"]
	_, hasErr := env["error"]
	if !hasData && !hasErr {
		return false
	}
	for k := range env {
		if k != "data" && k != "error" {
			return false
		}
	}
	return true
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

func decode[T any](payload []byte) (T, error) {
	var out T
	if len(payload) == 0 || isNull(payload) {
		return out, nil
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, fmt.Errorf("failed to parse response: %w", err)
	}
	return out, nil
}
