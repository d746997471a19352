package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"vibeapi/internal/ratelimit"
)

func TestRateLimitMiddleware(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	window := ratelimit.NewWindow(2, time.Minute, ratelimit.WithClock(func() time.Time { return now }))

	calls := 0
	handler := RateLimitMiddleware(window, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/search", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	now = now.Add(20 * time.Second)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/search", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "40", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
	assert.Equal(t, 2, calls)

	now = now.Add(41 * time.Second)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/search", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

type stubAdmitter struct{ wait time.Duration }

func (stubAdmitter) TryAdmit() bool                { return false }
func (s stubAdmitter) RetryAfter() time.Duration { return s.wait }

func TestRateLimitMiddleware_RetryAfterAtLeastOneSecond(t *testing.T) {
	handler := RateLimitMiddleware(stubAdmitter{wait: 100 * time.Millisecond}, zap.NewNop())(okHandler)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/search", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}
