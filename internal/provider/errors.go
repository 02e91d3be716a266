package provider

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrServiceUnavailable covers every failed completion: transport errors,
	// non-200 responses, unparsable bodies and rate limits that survived a retry.
	ErrServiceUnavailable = errors.New("service unavailable")
	// ErrRateLimited marks an HTTP 429 response.
	ErrRateLimited = errors.New("rate limited")
)

// StatusError is a non-200 response from the provider.
type StatusError struct {
	Provider string
	Code     int
	Message  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider %s: HTTP %d: %s", e.Provider, e.Code, e.Message)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrServiceUnavailable:
		return true
	case ErrRateLimited:
		return e.Code == http.StatusTooManyRequests
	}
	return false
}

func newStatusError(providerName string, statusCode int, body []byte) *StatusError {
	return &StatusError{
		Provider: providerName,
		Code:     statusCode,
		Message:  parseProviderError(statusCode, body),
	}
}

// parseProviderError extracts a human-readable error from provider API responses.
func parseProviderError(statusCode int, body []byte) string {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		msg := errResp.Error.Message
		if msg == "" {
			msg = errResp.Message
		}
		if msg != "" {
			return msg
		}
	}

	switch statusCode {
	case 401:
		return "authentication failed, check your API key"
	case 403:
		return "access denied, your API key may not have the required permissions"
	case 404:
		return "model or endpoint not found"
	case 429:
		return "rate limited, too many requests"
	case 500:
		return "internal server error on the provider side"
	case 502, 503:
		return "provider service temporarily unavailable"
	}

	s := string(body)
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

// friendlyProviderError converts common network errors to short messages.
func friendlyProviderError(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "connection refused (is the service running?)"
	case strings.Contains(msg, "no such host"):
		return "host not found (check the URL)"
	case strings.Contains(msg, "Client.Timeout"), strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "timeout"):
		return "request timed out"
	case strings.Contains(msg, "EOF"):
		return "connection closed unexpectedly"
	case strings.Contains(msg, "reset by peer"):
		return "connection reset by server"
	}
	return msg
}
