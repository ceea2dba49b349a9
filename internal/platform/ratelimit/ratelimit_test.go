package ratelimit_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aurum/internal/platform/ratelimit"
)

func TestMemoryStoreAllowsUpToLimit(t *testing.T) {
	store := ratelimit.NewMemoryStore()
	ctx := t.Context()

	for i := 0; i < 3; i++ {
		ok, err := store.Allow(ctx, "1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d should pass", i)
	}
	ok, err := store.Allow(ctx, "1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// A different client is unaffected.
	ok, err = store.Allow(ctx, "5.6.7.8", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStoreWindowExpiry(t *testing.T) {
	store := ratelimit.NewMemoryStore()
	ctx := t.Context()

	ok, err := store.Allow(ctx, "client", 1, 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.Allow(ctx, "client", 1, 10*time.Millisecond)
	require.NoError(t, err)
	require.False(t, ok)

	time.Sleep(20 * time.Millisecond)

	ok, err = store.Allow(ctx, "client", 1, 10*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLimiterMiddleware(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), 2, time.Minute, log)

	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:51234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do().Code)
	assert.Equal(t, http.StatusOK, do().Code)

	blocked := do()
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
}
