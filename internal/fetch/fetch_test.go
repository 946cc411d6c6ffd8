package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSendsBrowserHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	body, err := New().Get(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", string(body))
	assert.Contains(t, gotUA, "Mozilla/5.0")
	assert.Contains(t, gotAccept, "text/html")
}

func TestGetErrorsOnNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New().Get(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestGetLimitsBodySize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", maxBodyBytes+1024)))
	}))
	defer srv.Close()

	body, err := New().Get(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Len(t, body, maxBodyBytes)
}

func TestGetHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New().Get(ctx, srv.URL)
	assert.Error(t, err)
}

func TestGateSpacesCalls(t *testing.T) {
	g := NewGate(30 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, g.Wait(ctx))

	start := time.Now()
	require.NoError(t, g.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}

func TestGateZeroIntervalNeverWaits(t *testing.T) {
	g := NewGate(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, g.Wait(ctx))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestGateWaitFailsOnCancelledContext(t *testing.T) {
	g := NewGate(time.Hour)
	require.NoError(t, g.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, g.Wait(ctx))
}
