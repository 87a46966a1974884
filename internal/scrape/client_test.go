package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastClient(baseURL string) *Client {
	c := NewClient(Options{
		BaseURL:           baseURL,
		Timeout:           250 * time.Millisecond,
		RequestsPerSecond: 1000,
	})
	c.retry.BackoffBase = time.Millisecond
	return c
}

func TestClient_Get_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><h1>Rankings</h1></body></html>`))
	}))
	defer srv.Close()

	c := fastClient(srv.URL)
	doc, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Rankings", doc.Find("h1").Text())
}

func TestClient_Get_StatusErrorNotRetried(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := fastClient(srv.URL)
	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http status 404")
	assert.Equal(t, int64(1), calls.Load(), "status errors are permanent, not retried")
}

func TestClient_Get_TimeoutRetriedThenSucceeds(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			time.Sleep(time.Second) // beyond the client timeout
			return
		}
		_, _ = w.Write([]byte(`<html><body>ok</body></html>`))
	}))
	defer srv.Close()

	c := fastClient(srv.URL)
	doc, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, doc.Find("body").Text(), "ok")
	assert.Equal(t, int64(3), calls.Load())
}

func TestClient_Get_TimeoutExhaustsAttempts(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	c := fastClient(srv.URL)
	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, int64(3), calls.Load())
}

func TestClient_URLBuilders(t *testing.T) {
	c := NewClient(Options{})
	assert.Equal(t,
		"https://www.atptour.com/en/rankings/singles?rankRange=0-5000&dateWeek=2024-10-28",
		c.RankingsURL("singles", "2024-10-28"))
	assert.Equal(t,
		"https://www.atptour.com/en/scores/results-archive?year=2024&tournamentType=gs",
		c.ResultsArchiveURL(2024, "gs"))
	assert.Equal(t,
		"https://www.atptour.com/en/players/carlos-alcaraz/a0e2/overview",
		c.PlayerOverviewURL("carlos-alcaraz", "a0e2"))
}
