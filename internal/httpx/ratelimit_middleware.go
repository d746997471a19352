package httpx

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Admitter decides whether one more request may proceed.
type Admitter interface {
	TryAdmit() bool
	RetryAfter() time.Duration
}

// RateLimitMiddleware rejects requests the admitter refuses with 429 and a
// Retry-After header in whole seconds. Rejected requests never reach next.
func RateLimitMiddleware(limiter Admitter, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.TryAdmit() {
				wait := limiter.RetryAfter()
				secs := int(math.Ceil(wait.Seconds()))
				if secs < 1 {
					secs = 1
				}
				log.Warn("request rate limited",
					zap.String("path", r.URL.Path),
					zap.String("request_id", RequestIDFrom(r)),
					zap.Duration("retry_after", wait),
				)
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				JSONError(w, r, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
