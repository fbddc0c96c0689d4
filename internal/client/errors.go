package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// TransportError means the gateway never produced a response: connection
// refused, DNS failure, timeout, cancelled context.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway unreachable during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx gateway response. Message carries whatever the
// gateway put in the body: sometimes a plain string, sometimes a
// structured object with a message field.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway returned %d during %s", e.StatusCode, e.Op)
	}
	return fmt.Sprintf("gateway returned %d during %s: %s", e.StatusCode, e.Op, e.Message)
}

// extractMessage pulls a human-readable message out of an error body.
// The gateway is inconsistent here: auth endpoints return plain strings,
// newer endpoints return {"message": ...} or {"error": ...}.
func extractMessage(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var structured struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &structured); err == nil {
		if structured.Message != "" {
			return structured.Message
		}
		if structured.Error != "" {
			return structured.Error
		}
	}

	// Plain string body, possibly JSON-quoted.
	var quoted string
	if err := json.Unmarshal(body, &quoted); err == nil {
		return quoted
	}
	return trimmed
}

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// StatusCode returns the HTTP status of an APIError, or 0 for anything else.
func StatusCode(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	return 0
}
