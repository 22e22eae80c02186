package backend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NetworkError means the backend could not be reached at all (DNS, refused
// connection, reset, timeout).
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("backend unreachable (%s): %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError means the backend answered with a non-2xx status.
type HTTPError struct {
	Endpoint string
	Status   int
	Detail   string
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned HTTP %d (%s): %s", e.Status, e.Endpoint, e.Detail)
	}
	return fmt.Sprintf("backend returned HTTP %d (%s)", e.Status, e.Endpoint)
}

// LogicalError is a 2xx response whose body carries success:false.
type LogicalError struct {
	Endpoint string
	Message  string
}

func (e *LogicalError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend reported failure (%s)", e.Endpoint)
	}
	return e.Message
}

// UploadError wraps whatever made the upload step fail.
type UploadError struct {
	Filename string
	Err      error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %q failed: %v", e.Filename, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// errorDetail pulls a human readable message out of an error body. FastAPI
// uses {"detail": ...}; the backend's own payloads use {"error": ...}.
func errorDetail(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	var payload struct {
		Detail any    `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return truncate(trimmed, 200)
	}
	switch d := payload.Detail.(type) {
	case string:
		return d
	case nil:
	default:
		if raw, err := json.Marshal(d); err == nil {
			return truncate(string(raw), 200)
		}
	}
	return payload.Error
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
