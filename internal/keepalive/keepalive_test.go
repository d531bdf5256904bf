package keepalive

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerRoot(t *testing.T) {
	srv := httptest.NewServer(New(":0", "", 0).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Bot is running!", string(body))
}

func TestHandlerUnknownPath(t *testing.T) {
	srv := httptest.NewServer(New(":0", "", 0).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandlerHealthz(t *testing.T) {
	srv := httptest.NewServer(New(":0", "", 0).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandlerMetrics(t *testing.T) {
	srv := httptest.NewServer(New(":0", "", 0).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSelfPingHitsPublicURL(t *testing.T) {
	var hits atomic.Int32
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	s := New(":0", target.URL, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.pingLoop(ctx)

	assert.Eventually(t, func() bool { return hits.Load() >= 2 },
		time.Second, 10*time.Millisecond)
}

func TestSelfPingSwallowsFailures(t *testing.T) {
	s := New(":0", "http://127.0.0.1:1/unreachable", 10*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	s.pingLoop(ctx) // must return on ctx expiry without panicking
}

func TestDefaultPingInterval(t *testing.T) {
	s := New(":0", "", 0)
	assert.Equal(t, DefaultPingInterval, s.pingInterval)
}
