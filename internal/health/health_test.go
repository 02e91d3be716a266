package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckWrappedModelList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[{"id":"a"},{"id":"b"}]}`))
	}))
	defer server.Close()

	s := NewChecker(server.Client(), time.Second).Check(context.Background(), "together", server.URL+"/v1/", "k", "b")
	assert.True(t, s.OK())
	assert.Equal(t, []string{"a", "b"}, s.Models)
	assert.True(t, s.ModelFound)
	assert.Equal(t, "together", s.Provider)
}

func TestCheckBareModelList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"mixtral"}]`))
	}))
	defer server.Close()

	s := NewChecker(server.Client(), time.Second).Check(context.Background(), "together", server.URL, "", "other")
	assert.True(t, s.Reachable)
	assert.False(t, s.ModelFound)
	assert.Contains(t, s.Error, "not listed")
	assert.False(t, s.OK())
}

func TestCheckUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	s := NewChecker(server.Client(), time.Second).Check(context.Background(), "together", server.URL, "bad", "")
	assert.True(t, s.Reachable)
	assert.False(t, s.Authorized)
	assert.Contains(t, s.Error, "authentication failed")
}

func TestCheckServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	s := NewChecker(server.Client(), time.Second).Check(context.Background(), "together", server.URL, "", "")
	assert.Equal(t, "endpoint returned HTTP 502", s.Error)
}

func TestCheckUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	s := NewChecker(nil, time.Second).Check(context.Background(), "together", url, "", "")
	assert.False(t, s.Reachable)
	assert.Contains(t, s.Error, "cannot reach")
}

func TestCheckNonJSONStillReachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	s := NewChecker(server.Client(), time.Second).Check(context.Background(), "together", server.URL, "", "m")
	assert.True(t, s.OK())
	assert.Empty(t, s.Models)
}
