package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fredcamaral/deckforge/internal/domain/ports"
)

func TestLoggingMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("test response"))
	})

	logger := &capturingLogger{}
	wrapped := createLoggingMiddleware(handler, logger)

	req := httptest.NewRequest("POST", "/generate?api_key=ignored", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	if assert.Len(t, logger.lines, 1) {
		assert.Contains(t, logger.lines[0], "HTTP POST /generate - 201 13 bytes")
		assert.NotContains(t, logger.lines[0], "api_key")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	t.Run("normal operation", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		w := httptest.NewRecorder()
		createRecoveryMiddleware(handler, ports.NopLogger{}).ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("panic recovery", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("test panic")
		})

		w := httptest.NewRecorder()
		assert.NotPanics(t, func() {
			createRecoveryMiddleware(handler, ports.NopLogger{}).ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("limits per client within the window", func(t *testing.T) {
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		limiter := newRateLimiter(2, time.Minute)
		limiter.now = func() time.Time { return now }

		assert.True(t, limiter.isAllowed("10.0.0.1"))
		assert.True(t, limiter.isAllowed("10.0.0.1"))
		assert.False(t, limiter.isAllowed("10.0.0.1"))
		assert.True(t, limiter.isAllowed("10.0.0.2"))

		now = now.Add(61 * time.Second)
		assert.True(t, limiter.isAllowed("10.0.0.1"))
	})

	t.Run("middleware returns 429", func(t *testing.T) {
		limiter := newRateLimiter(1, time.Minute)
		handler := rateLimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}), limiter)

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest("GET", "/health", nil))
		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest("GET", "/health", nil))

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.Equal(t, "60", second.Header().Get("Retry-After"))
	})
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	assert.Equal(t, "192.0.2.10", getClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", getClientIP(req))
}
