package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// statusSequence answers with the given statuses in order, then 200s.
func statusSequence(calls *atomic.Int32, statuses ...int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := int(calls.Add(1)) - 1
		if n < len(statuses) && statuses[n] != http.StatusOK {
			w.WriteHeader(statuses[n])
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"recovered"}}]}`))
	}
}

func TestRetry_SucceedsAfterOneRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(statusSequence(&calls, http.StatusTooManyRequests))
	defer server.Close()

	inner := newTestProvider(server.URL, time.Second)
	defer inner.CloseIdleConnections()
	p := WithRateLimitRetry(inner, 10*time.Millisecond, zaptest.NewLogger(t))

	text, err := p.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.EqualValues(t, 2, calls.Load())
}

func TestRetry_SecondRateLimitIsUnavailable(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(statusSequence(&calls, http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusTooManyRequests))
	defer server.Close()

	inner := newTestProvider(server.URL, time.Second)
	defer inner.CloseIdleConnections()
	p := WithRateLimitRetry(inner, 10*time.Millisecond, zaptest.NewLogger(t))

	_, err := p.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrServiceUnavailable))
	assert.EqualValues(t, 2, calls.Load(), "must retry exactly once")
}

func TestRetry_OtherStatusNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(statusSequence(&calls, http.StatusInternalServerError))
	defer server.Close()

	inner := newTestProvider(server.URL, time.Second)
	defer inner.CloseIdleConnections()
	p := WithRateLimitRetry(inner, 10*time.Millisecond, nil)

	_, err := p.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	assert.True(t, errors.Is(err, ErrServiceUnavailable))
	assert.EqualValues(t, 1, calls.Load())
}

func TestRetry_WaitHonoursContext(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(statusSequence(&calls, http.StatusTooManyRequests))
	defer server.Close()

	inner := newTestProvider(server.URL, time.Second)
	defer inner.CloseIdleConnections()
	p := WithRateLimitRetry(inner, time.Hour, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.Complete(ctx, []Message{{Role: RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrServiceUnavailable))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.EqualValues(t, 1, calls.Load())
}

func TestRetry_Name(t *testing.T) {
	p := WithRateLimitRetry(NewOpenAI("together", "http://x", "", "m", DefaultSampling(), 0), 0, nil)
	assert.Equal(t, "together", p.Name())
	assert.Equal(t, DefaultRetryDelay, p.delay)
}
