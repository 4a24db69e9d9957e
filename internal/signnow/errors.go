package signnow

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rpggio/sn-mcp/internal/repository"
)

// APIError is a failed upstream call. It unwraps to the repository
// sentinel matching its status code.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("signnow: %s", e.Message)
	}
	return fmt.Sprintf("signnow: %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == 0:
		return repository.ErrTimeout
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return repository.ErrUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return repository.ErrNotFound
	case e.StatusCode == http.StatusTooManyRequests:
		return repository.ErrRateLimited
	case e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity:
		return repository.ErrInvalidInput
	default:
		return repository.ErrUpstream
	}
}

func newAPIError(status int, body []byte) *APIError {
	msg := http.StatusText(status)
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		if v := stringField(payload, "error"); v != "" {
			msg = v
		} else if v := stringField(payload, "message"); v != "" {
			msg = v
		} else if errs, ok := payload["errors"].([]any); ok && len(errs) > 0 {
			if first, ok := errs[0].(map[string]any); ok {
				if v := stringField(first, "message"); v != "" {
					msg = v
				}
			}
		}
	}
	return &APIError{StatusCode: status, Message: msg, Body: string(body)}
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
