package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single completion request.
const DefaultTimeout = 15 * time.Second

// OpenAIProvider talks to any OpenAI-compatible /chat/completions endpoint
// (Together AI, OpenAI, Ollama, vLLM).
type OpenAIProvider struct {
	name     string
	baseURL  string
	apiKey   string
	model    string
	sampling Sampling
	client   *http.Client
}

func NewOpenAI(name, baseURL, apiKey, model string, sampling Sampling, timeout time.Duration) *OpenAIProvider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OpenAIProvider{
		name:     name,
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		model:    model,
		sampling: sampling,
		client:   &http.Client{Timeout: timeout},
	}
}

func (o *OpenAIProvider) Name() string { return o.name }

func (o *OpenAIProvider) ModelName() string { return o.model }

// CloseIdleConnections releases pooled keep-alive connections.
func (o *OpenAIProvider) CloseIdleConnections() {
	o.client.CloseIdleConnections()
}

type oaiRequest struct {
	Model       string       `json:"model"`
	Messages    []oaiMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens"`
	Temperature float64      `json:"temperature"`
	TopP        float64      `json:"top_p"`
	Stop        []string     `json:"stop,omitempty"`
}

type oaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends msgs and returns the first choice's content, trimmed.
func (o *OpenAIProvider) Complete(ctx context.Context, msgs []Message) (string, error) {
	oaiMsgs := make([]oaiMessage, len(msgs))
	for i, m := range msgs {
		oaiMsgs[i] = oaiMessage{Role: string(m.Role), Content: m.Content}
	}

	payload, err := json.Marshal(oaiRequest{
		Model:       o.model,
		Messages:    oaiMsgs,
		MaxTokens:   o.sampling.MaxTokens,
		Temperature: o.sampling.Temperature,
		TopP:        o.sampling.TopP,
		Stop:        o.sampling.Stop,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrServiceUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: provider %s: %s", ErrServiceUnavailable, o.name, friendlyProviderError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: provider %s: read body: %s", ErrServiceUnavailable, o.name, friendlyProviderError(err))
	}
	if resp.StatusCode != http.StatusOK {
		return "", newStatusError(o.name, resp.StatusCode, body)
	}

	var result oaiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: provider %s: decode response: %v", ErrServiceUnavailable, o.name, err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: provider %s: response has no choices", ErrServiceUnavailable, o.name)
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
