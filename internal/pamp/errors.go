package pamp

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// APIError is returned for responses with status >= 400.
type APIError struct {
	Method string
	Path   string
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
	}
	return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Status, e.Detail)
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 401
}

// Message returns a short human-readable description of err for display.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return fmt.Sprintf("server returned %d", apiErr.Status)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "server is offline"
	case strings.Contains(msg, "no such host"):
		return "server host not found"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "request timed out"
	default:
		return msg
	}
}

// parseErrorDetail extracts a message from the JSON error bodies the server
// produces: {"detail": ...}, {"message": ...} or per-field error lists.
func parseErrorDetail(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		if len(trimmed) > 200 || strings.HasPrefix(trimmed, "<") {
			return ""
		}
		return trimmed
	}
	for _, key := range []string{"detail", "message"} {
		if raw, ok := payload[key]; ok {
			if text := flattenMessage(raw); text != "" {
				return text
			}
		}
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if text := flattenMessage(payload[k]); text != "" {
			parts = append(parts, k+": "+text)
		}
	}
	return strings.Join(parts, "; ")
}

func flattenMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.TrimSpace(strings.Join(list, " "))
	}
	return ""
}
