package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy","model":"gpt-4o"}`))
	}))
	defer srv.Close()

	h, err := New(srv.URL+"/", time.Second).Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Health{Status: "healthy", Model: "gpt-4o"}, h)
}

func TestHealthErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Health(context.Background())
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestHealthUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, 200*time.Millisecond).Health(context.Background())
	assert.Error(t, err)
}

func TestExamples(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/examples", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"examples":["Who killed Karna, and why?"]}`))
	}))
	defer srv.Close()

	got, err := New(srv.URL, 0).Examples(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Who killed Karna, and why?"}, got)
}

func TestDefaultExamples(t *testing.T) {
	assert.Len(t, DefaultExamples, 10)
}
