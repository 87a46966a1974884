package render

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastService(baseURL string) *ServiceClient {
	c := NewServiceClient(ServiceOptions{
		BaseURL: baseURL,
		Timeout: 250 * time.Millisecond,
	})
	c.retry.BackoffBase = time.Millisecond
	return c
}

func TestServiceClient_Render(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/content", r.URL.Path)

		var req struct {
			URL         string `json:"url"`
			GotoOptions struct {
				WaitUntil string `json:"waitUntil"`
			} `json:"gotoOptions"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://example.com/player", req.URL)
		assert.Equal(t, "networkidle0", req.GotoOptions.WaitUntil)

		_, _ = w.Write([]byte("<html><body>rendered</body></html>"))
	}))
	defer srv.Close()

	c := fastService(srv.URL)
	html, err := c.Render(context.Background(), "https://example.com/player")
	require.NoError(t, err)
	assert.Contains(t, html, "rendered")
}

func TestServiceClient_TimeoutStatusRetried(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusRequestTimeout)
			return
		}
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	c := fastService(srv.URL)
	html, err := c.Render(context.Background(), "https://example.com/p")
	require.NoError(t, err)
	assert.Contains(t, html, "ok")
	assert.Equal(t, int64(2), calls.Load())
}

func TestServiceClient_ErrorStatusNotRetried(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := fastService(srv.URL)
	_, err := c.Render(context.Background(), "https://example.com/p")
	require.Error(t, err)
	assert.Equal(t, int64(1), calls.Load())
}

func TestServiceClient_TokenAppended(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("token"))
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	c := NewServiceClient(ServiceOptions{BaseURL: srv.URL, Token: "secret"})
	_, err := c.Render(context.Background(), "https://example.com/p")
	require.NoError(t, err)
}
