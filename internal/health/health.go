package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a whole check.
const DefaultTimeout = 10 * time.Second

type Status struct {
	Provider   string
	BaseURL    string
	Reachable  bool
	Authorized bool
	Models     []string
	ModelFound bool
	Error      string
	Latency    time.Duration
}

// OK reports whether the endpoint answered and accepted the credentials.
func (s Status) OK() bool {
	return s.Reachable && s.Authorized && s.Error == ""
}

// Checker probes an OpenAI-compatible chat-completion endpoint.
type Checker struct {
	client  *http.Client
	timeout time.Duration
}

// NewChecker uses client, or http.DefaultClient when nil.
func NewChecker(client *http.Client, timeout time.Duration) *Checker {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{client: client, timeout: timeout}
}

// Check hits {baseURL}/models and, when model is set, looks for it in the list.
func (c *Checker) Check(ctx context.Context, provider, baseURL, apiKey, model string) (s Status) {
	s = Status{Provider: provider, BaseURL: baseURL}
	start := time.Now()
	defer func() { s.Latency = time.Since(start) }()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := strings.TrimRight(baseURL, "/") + "/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		s.Error = err.Error()
		return s
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		s.Error = fmt.Sprintf("cannot reach %s: %s", baseURL, friendlyError(err))
		return s
	}
	defer resp.Body.Close()
	s.Reachable = true

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		s.Error = "authentication failed, check your API key"
		return s
	}
	s.Authorized = true
	if resp.StatusCode != http.StatusOK {
		s.Error = fmt.Sprintf("endpoint returned HTTP %d", resp.StatusCode)
		return s
	}

	// Together returns a bare array; OpenAI wraps it in {"data": [...]}.
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return s
	}
	s.Models = modelIDs(raw)
	if model != "" {
		for _, m := range s.Models {
			if m == model {
				s.ModelFound = true
				break
			}
		}
		if len(s.Models) > 0 && !s.ModelFound {
			s.Error = fmt.Sprintf("model %q not listed by the endpoint", model)
		}
	}
	return s
}

type modelEntry struct {
	ID string `json:"id"`
}

func modelIDs(raw json.RawMessage) []string {
	var list []modelEntry
	if err := json.Unmarshal(raw, &list); err != nil {
		var wrapped struct {
			Data []modelEntry `json:"data"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil
		}
		list = wrapped.Data
	}
	ids := make([]string, 0, len(list))
	for _, m := range list {
		ids = append(ids, m.ID)
	}
	return ids
}

func friendlyError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "connection timed out"
	}
	msg := err.Error()
	if strings.Contains(msg, "connection refused") {
		return "connection refused (is the service running?)"
	}
	if strings.Contains(msg, "no such host") {
		return "host not found (check the URL)"
	}
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") {
		return "connection timed out"
	}
	return msg
}
