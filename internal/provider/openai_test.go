package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

// mockCompletionHandler validates requests and answers with content.
func mockCompletionHandler(t *testing.T, content string, validation func(*http.Request, *oaiRequest)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}

		var req oaiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if validation != nil {
			validation(r, &req)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}
}

func newTestProvider(url string, timeout time.Duration) *OpenAIProvider {
	return NewOpenAI("test", url, "key", "test-model", DefaultSampling(), timeout)
}

func TestOpenAI_CompleteRequestShape(t *testing.T) {
	server := httptest.NewServer(mockCompletionHandler(t, "  Hello there.  ", func(r *http.Request, req *oaiRequest) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "test-model", req.Model)
		assert.Equal(t, 200, req.MaxTokens)
		assert.InDelta(t, 0.7, req.Temperature, 1e-9)
		assert.InDelta(t, 0.9, req.TopP, 1e-9)
		assert.Equal(t, []string{"Human:", "User:"}, req.Stop)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
	}))
	defer server.Close()

	p := newTestProvider(server.URL, time.Second)
	defer p.CloseIdleConnections()

	text, err := p.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "be nice"},
		{Role: RoleUser, Content: "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello there.", text)
}

func TestOpenAI_EmptyContentMarshaling(t *testing.T) {
	// Empty content must still be sent as "content": "".
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("Failed to decode request: %v", err)
			return
		}
		msgs, ok := raw["messages"].([]any)
		if !ok {
			t.Error("messages field missing or invalid")
			return
		}
		for _, m := range msgs {
			msgMap, _ := m.(map[string]any)
			if _, hasContent := msgMap["content"]; !hasContent {
				t.Error("JSON missing 'content' field")
			}
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	p := newTestProvider(server.URL, time.Second)
	defer p.CloseIdleConnections()

	_, err := p.Complete(context.Background(), []Message{{Role: RoleUser, Content: ""}})
	require.NoError(t, err)
}

func TestOpenAI_NoAuthHeaderWithoutKey(t *testing.T) {
	server := httptest.NewServer(mockCompletionHandler(t, "ok", func(r *http.Request, _ *oaiRequest) {
		assert.Empty(t, r.Header.Get("Authorization"))
	}))
	defer server.Close()

	p := NewOpenAI("local", server.URL+"/", "", "m", DefaultSampling(), time.Second)
	defer p.CloseIdleConnections()
	_, err := p.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.NoError(t, err)
}

func TestOpenAI_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		rateLimited bool
		contains    string
	}{
		{name: "rate limited", status: 429, body: ``, rateLimited: true, contains: "rate limited"},
		{name: "server error with message", status: 500, body: `{"error":{"message":"model overloaded"}}`, contains: "model overloaded"},
		{name: "unauthorized", status: 401, body: ``, contains: "authentication failed"},
		{name: "teapot", status: 418, body: `short and stout`, contains: "short and stout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p := newTestProvider(server.URL, time.Second)
			defer p.CloseIdleConnections()

			_, err := p.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrServiceUnavailable))
			assert.Equal(t, tt.rateLimited, errors.Is(err, ErrRateLimited))
			assert.Contains(t, err.Error(), tt.contains)

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.Code)
		})
	}
}

func TestOpenAI_MalformedResponses(t *testing.T) {
	for name, body := range map[string]string{
		"not json":   `<html>oops</html>`,
		"no choices": `{"choices":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			p := newTestProvider(server.URL, time.Second)
			defer p.CloseIdleConnections()

			_, err := p.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
			assert.True(t, errors.Is(err, ErrServiceUnavailable))
		})
	}
}

func TestOpenAI_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	p := newTestProvider(server.URL, 50*time.Millisecond)
	defer p.CloseIdleConnections()

	start := time.Now()
	_, err := p.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrServiceUnavailable))
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), time.Second)
}

func TestOpenAI_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	p := newTestProvider(url, time.Second)
	_, err := p.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	assert.True(t, errors.Is(err, ErrServiceUnavailable))
}

func TestOpenAI_LongConversation(t *testing.T) {
	msgCount := 100
	var calls atomic.Int32
	server := httptest.NewServer(mockCompletionHandler(t, "fine", func(_ *http.Request, req *oaiRequest) {
		calls.Add(1)
		if len(req.Messages) != msgCount {
			t.Errorf("Expected %d messages, got %d", msgCount, len(req.Messages))
		}
	}))
	defer server.Close()

	p := newTestProvider(server.URL, time.Second)
	defer p.CloseIdleConnections()

	msgs := make([]Message, msgCount)
	for i := range msgs {
		msgs[i] = Message{Role: RoleUser, Content: "aaaaaaaaaa"}
	}
	_, err := p.Complete(context.Background(), msgs)
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())
}
